package records

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/eduscan-api/internal/models"
)

func grades(scores ...interface{}) []models.Grade {
	out := []models.Grade{}
	for i := 0; i < len(scores); i += 2 {
		out = append(out, models.Grade{Type: scores[i].(models.GradeType), Score: scores[i+1].(float64)})
	}
	return out
}

func TestAverageByTypeEmptyIsZero(t *testing.T) {
	sd := models.SubjectData{Grades: grades(models.GradeTypeExam, 90.0)}

	assert.Equal(t, 0.0, AverageByType(models.SubjectData{}, models.GradeTypeAssignment))
	assert.Equal(t, 0.0, AverageByType(sd, models.GradeTypeMidTerm))
}

func TestBudiScenario(t *testing.T) {
	sd := models.SubjectData{Grades: grades(
		models.GradeTypeAssignment, 80.0,
		models.GradeTypeMidTerm, 85.0,
		models.GradeTypeExam, 90.0,
	)}

	assert.Equal(t, 80.0, AverageByType(sd, models.GradeTypeAssignment))
	assert.Equal(t, 85.0, AverageByType(sd, models.GradeTypeMidTerm))
	assert.Equal(t, 90.0, AverageByType(sd, models.GradeTypeExam))
	assert.Equal(t, 85.0, OverallAverage(sd))
	assert.Equal(t, models.PassStatusPassing, PassStatus(sd))
}

func TestPassStatusIgnoresTypeAndTreatsBoundaryAsPassing(t *testing.T) {
	boundary := models.SubjectData{Grades: grades(models.GradeTypeAssignment, 100.0, models.GradeTypeAssignment, 50.0, models.GradeTypeExam, 75.0)}
	assert.Equal(t, 75.0, OverallAverage(boundary))
	assert.Equal(t, models.PassStatusPassing, PassStatus(boundary))

	// mean of the category means would be 77.5; the unweighted mean is 68.75.
	below := models.SubjectData{Grades: grades(
		models.GradeTypeAssignment, 60.0,
		models.GradeTypeAssignment, 60.0,
		models.GradeTypeAssignment, 60.0,
		models.GradeTypeExam, 95.0,
	)}
	assert.Equal(t, models.PassStatusRemedial, PassStatus(below))

	assert.Equal(t, models.PassStatusRemedial, PassStatus(models.SubjectData{}))
}

func TestAttendanceTally(t *testing.T) {
	sd := models.SubjectData{Attendance: []models.AttendanceRecord{
		{Date: "2024-01-01", Status: models.AttendanceStatusPresent},
		{Date: "2024-01-02", Status: models.AttendanceStatusAbsent},
		{Date: "2024-01-03", Status: models.AttendanceStatusPresent},
		{Date: "2024-01-04", Status: models.AttendanceStatusSick},
	}}

	assert.Equal(t, 2, AttendanceTally(sd, models.AttendanceStatusPresent))
	assert.Equal(t, 0, AttendanceTally(sd, models.AttendanceStatusExcused))
	assert.Equal(t, models.AttendanceTally{Present: 2, Sick: 1, Absent: 1}, TallyAttendance(sd))
}

func TestBuildReportRowsFieldsAndFilter(t *testing.T) {
	students := DemoStudents()
	students = append(students, models.Student{ID: "x", Name: "Eka", ClassGroup: "7-B", Subjects: []models.SubjectData{
		{SubjectName: "Matematika", Grades: grades(models.GradeTypeAssignment, 70.0, models.GradeTypeAssignment, 75.0)},
		{SubjectName: "IPA"},
	}})

	rows := BuildReportRows(students, models.FilterAll, "Matematika")
	assert.Len(t, rows, 2)
	assert.Equal(t, models.ReportRow{
		Name: "Budi Santoso", ID: "1001", ClassGroup: "7-A", SubjectName: "Matematika",
		AssignmentAvg: 80, ExamAvg: 90, MidTermAvg: 85,
		PresentCount: 1, AbsentCount: 0, BehaviorScore: 85,
		PassStatusLabel: models.PassStatusPassing,
	}, rows[0])
	assert.Equal(t, 72.5, rows[1].AssignmentAvg)
	assert.Equal(t, models.PassStatusRemedial, rows[1].PassStatusLabel)

	all := BuildReportRows(students, "7-B", models.FilterAll)
	assert.Len(t, all, 2)
}

func TestDigest(t *testing.T) {
	st := DemoStudents()[0]
	st.Subjects = append(st.Subjects, models.SubjectData{
		SubjectName: "IPA",
		Grades:      grades(models.GradeTypeAssignment, 70.0, models.GradeTypeAssignment, 75.0),
		Attendance:  []models.AttendanceRecord{{Date: "2024-01-01", Status: models.AttendanceStatusAbsent}},
	})

	assert.Equal(t,
		"Matematika: Assignment[80.0], Exam[90.0], MidTerm[85.0], Present[1], Absent[0]\n"+
			"IPA: Assignment[72.5], Exam[0], MidTerm[0], Present[0], Absent[1]",
		Digest(st))
}

func TestOverview(t *testing.T) {
	students := DemoStudents()
	students[0].Subjects[0].Attendance = append(students[0].Subjects[0].Attendance,
		models.AttendanceRecord{Date: "2024-03-04", Status: models.AttendanceStatusSick})
	students = append(students, studentWithSubject("b", "Budi", "7-A", "Matematika"))

	ov := Overview(students, "7-A", "Matematika", "2024-03-04")
	assert.Equal(t, 2, ov.StudentCount)
	assert.Equal(t, 2, ov.SubjectRows)
	assert.Equal(t, 1, ov.PassingRows)
	assert.Equal(t, 1, ov.RemedialRows)
	assert.Equal(t, models.AttendanceTally{Sick: 1}, ov.TodayAttendance)
	assert.Equal(t, 80.0, ov.AssignmentAvg)
	assert.Equal(t, 82.5, ov.BehaviorAvg)
}
