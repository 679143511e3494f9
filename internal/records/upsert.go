package records

import (
	"fmt"
	"strings"

	"github.com/noah-isme/eduscan-api/internal/models"
	appErrors "github.com/noah-isme/eduscan-api/pkg/errors"
)

// RosterResult reports what a bulk roster import did, by student id.
type RosterResult struct {
	Created []string `json:"created"`
	Merged  []string `json:"merged"`
	Skipped []string `json:"skipped"`
}

type rosterOutcome int

const (
	rosterCreated rosterOutcome = iota
	rosterMerged
	rosterDuplicate
)

func newSubject(name, today string) models.SubjectData {
	return models.SubjectData{
		SubjectName:     name,
		Attendance:      []models.AttendanceRecord{},
		Grades:          []models.Grade{},
		BehaviorHistory: []models.BehaviorRecord{{Date: today, Score: models.DefaultBehaviorScore}},
	}
}

// enroll attaches subjectName to the student identified by (name, classGroup),
// creating the student when absent.
func enroll(tx *Tx, name, classGroup, subjectName string) (int, rosterOutcome) {
	if idx := tx.indexByIdentity(name, classGroup); idx >= 0 {
		st := &tx.students[idx]
		if st.Subject(subjectName) >= 0 {
			return idx, rosterDuplicate
		}
		st.Subjects = append(st.Subjects, newSubject(subjectName, tx.Today()))
		return idx, rosterMerged
	}

	tx.students = append(tx.students, models.Student{
		ID:         tx.ids.Next(classGroup, tx.idTaken),
		Name:       name,
		ClassGroup: classGroup,
		Subjects:   []models.SubjectData{newSubject(subjectName, tx.Today())},
	})
	return len(tx.students) - 1, rosterCreated
}

func validateRosterFields(classGroup, subjectName string) (string, string, error) {
	classGroup, err := requireText("classGroup", classGroup)
	if err != nil {
		return "", "", err
	}
	subjectName, err = requireText("subjectName", subjectName)
	if err != nil {
		return "", "", err
	}
	if classGroup == models.FilterAll || subjectName == models.FilterAll {
		return "", "", validationError("%q is reserved for filters", models.FilterAll)
	}
	return classGroup, subjectName, nil
}

// AddSingleStudent enrolls one student in a subject. A student with the same
// name and class gains the subject; enrolling them twice in the same subject
// fails with a duplicate subject error.
func AddSingleStudent(tx *Tx, name, classGroup, subjectName string) (models.Student, error) {
	name, err := requireText("name", name)
	if err != nil {
		return models.Student{}, err
	}
	classGroup, subjectName, err = validateRosterFields(classGroup, subjectName)
	if err != nil {
		return models.Student{}, err
	}

	idx, outcome := enroll(tx, name, classGroup, subjectName)
	if outcome == rosterDuplicate {
		return models.Student{}, appErrors.Clone(appErrors.ErrDuplicateSubject,
			fmt.Sprintf("%s (%s) is already registered for %s", name, classGroup, subjectName))
	}
	return tx.students[idx].Clone(), nil
}

// AddBulkRoster enrolls every non-blank name. Names already registered for
// the subject are skipped, so repeating a line is harmless.
func AddBulkRoster(tx *Tx, classGroup, subjectName string, names []string) (RosterResult, error) {
	classGroup, subjectName, err := validateRosterFields(classGroup, subjectName)
	if err != nil {
		return RosterResult{}, err
	}
	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	if len(cleaned) == 0 {
		return RosterResult{}, validationError("at least one name is required")
	}

	result := RosterResult{Created: []string{}, Merged: []string{}, Skipped: []string{}}
	for _, name := range cleaned {
		idx, outcome := enroll(tx, name, classGroup, subjectName)
		id := tx.students[idx].ID
		switch outcome {
		case rosterCreated:
			result.Created = append(result.Created, id)
		case rosterMerged:
			result.Merged = append(result.Merged, id)
		default:
			result.Skipped = append(result.Skipped, id)
		}
	}
	return result, nil
}

// upsertAttendance overwrites the record for date or appends one.
func upsertAttendance(sd *models.SubjectData, date string, status models.AttendanceStatus) {
	for i := range sd.Attendance {
		if sd.Attendance[i].Date == date {
			sd.Attendance[i].Status = status
			return
		}
	}
	sd.Attendance = append(sd.Attendance, models.AttendanceRecord{Date: date, Status: status})
}

func resolveStatus(status models.AttendanceStatus) (models.AttendanceStatus, error) {
	if status == "" {
		return models.AttendanceStatusPresent, nil
	}
	if !status.Valid() {
		return "", validationError("unknown attendance status %q", status)
	}
	return status, nil
}

// RecordAttendance sets the status for one student, subject and date. An
// empty date means today and an empty status means present.
func RecordAttendance(tx *Tx, studentID, subjectName, date string, status models.AttendanceStatus) error {
	subjectName, err := ConcreteSubject(subjectName)
	if err != nil {
		return err
	}
	if date, err = resolveDate(tx, date); err != nil {
		return err
	}
	if status, err = resolveStatus(status); err != nil {
		return err
	}

	idx := tx.indexByID(strings.TrimSpace(studentID))
	if idx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %q not found", studentID))
	}
	st := &tx.students[idx]
	sdIdx := st.Subject(subjectName)
	if sdIdx < 0 {
		return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s is not enrolled in %s", st.Name, subjectName))
	}
	upsertAttendance(&st.Subjects[sdIdx], date, status)
	return nil
}

// eachFiltered calls fn for the subject record of every student in the
// filter set. subjectName must be concrete.
func eachFiltered(tx *Tx, classGroup, subjectName string, fn func(st *models.Student, sd *models.SubjectData)) {
	for i := range tx.students {
		st := &tx.students[i]
		if !classMatches(st.ClassGroup, classGroup) {
			continue
		}
		if sdIdx := st.Subject(subjectName); sdIdx >= 0 {
			fn(st, &st.Subjects[sdIdx])
		}
	}
}

// RecordBulkGrade appends one grade to every student in the filter set.
// Students without an entry in scores get 0. It returns the number of grades
// written.
func RecordBulkGrade(tx *Tx, classGroup, subjectName, title string, gradeType models.GradeType, date string, scores map[string]float64) (int, error) {
	subjectName, err := ConcreteSubject(subjectName)
	if err != nil {
		return 0, err
	}
	if title, err = requireText("title", title); err != nil {
		return 0, err
	}
	if !gradeType.Valid() {
		return 0, validationError("unknown grade type %q", gradeType)
	}
	if date, err = resolveDate(tx, date); err != nil {
		return 0, err
	}

	written := 0
	eachFiltered(tx, classGroup, subjectName, func(st *models.Student, sd *models.SubjectData) {
		sd.Grades = append(sd.Grades, models.Grade{
			Title: title,
			Score: scores[st.ID],
			Type:  gradeType,
			Date:  date,
		})
		written++
	})
	return written, nil
}

// RecordBulkAttendance sets attendance for the students of the filter set
// that appear in statuses. Others are left untouched.
func RecordBulkAttendance(tx *Tx, classGroup, subjectName, date string, statuses map[string]models.AttendanceStatus) (int, error) {
	subjectName, err := ConcreteSubject(subjectName)
	if err != nil {
		return 0, err
	}
	if date, err = resolveDate(tx, date); err != nil {
		return 0, err
	}
	resolved := make(map[string]models.AttendanceStatus, len(statuses))
	for id, status := range statuses {
		if resolved[id], err = resolveStatus(status); err != nil {
			return 0, err
		}
	}

	written := 0
	eachFiltered(tx, classGroup, subjectName, func(st *models.Student, sd *models.SubjectData) {
		if status, ok := resolved[st.ID]; ok {
			upsertAttendance(sd, date, status)
			written++
		}
	})
	return written, nil
}

// RecordBulkBehavior appends a behavior rating for the students of the
// filter set that appear in scores. Scores must lie in 0..100.
func RecordBulkBehavior(tx *Tx, classGroup, subjectName, date string, scores map[string]float64) (int, error) {
	subjectName, err := ConcreteSubject(subjectName)
	if err != nil {
		return 0, err
	}
	if date, err = resolveDate(tx, date); err != nil {
		return 0, err
	}
	for id, score := range scores {
		if !validBehaviorScore(score) {
			return 0, validationError("behavior score for %q must be between 0 and 100", id)
		}
	}

	written := 0
	eachFiltered(tx, classGroup, subjectName, func(st *models.Student, sd *models.SubjectData) {
		if score, ok := scores[st.ID]; ok {
			sd.BehaviorHistory = append(sd.BehaviorHistory, models.BehaviorRecord{Date: date, Score: score})
			written++
		}
	})
	return written, nil
}

// DeleteStudent removes the student with id. It reports whether a student
// was removed; removing an unknown id is not an error.
func DeleteStudent(tx *Tx, id string) bool {
	idx := tx.indexByID(id)
	if idx < 0 {
		return false
	}
	tx.students = append(tx.students[:idx], tx.students[idx+1:]...)
	return true
}
