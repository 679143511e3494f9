package records

import (
	"fmt"
	"math"
	"strings"

	"github.com/noah-isme/eduscan-api/internal/models"
)

// AverageByType is the mean score of grades of type t, or 0 with none.
func AverageByType(sd models.SubjectData, t models.GradeType) float64 {
	sum, n := 0.0, 0
	for _, g := range sd.Grades {
		if g.Type == t {
			sum += g.Score
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// AttendanceTally counts attendance records with status.
func AttendanceTally(sd models.SubjectData, status models.AttendanceStatus) int {
	n := 0
	for _, rec := range sd.Attendance {
		if rec.Status == status {
			n++
		}
	}
	return n
}

// TallyAttendance counts every status at once.
func TallyAttendance(sd models.SubjectData) models.AttendanceTally {
	var t models.AttendanceTally
	for _, rec := range sd.Attendance {
		t.Add(rec.Status)
	}
	return t
}

// OverallAverage is the unweighted mean of all grades regardless of type.
func OverallAverage(sd models.SubjectData) float64 {
	if len(sd.Grades) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range sd.Grades {
		sum += g.Score
	}
	return sum / float64(len(sd.Grades))
}

// PassStatus compares the overall average with the pass threshold. A subject
// without grades is remedial.
func PassStatus(sd models.SubjectData) models.PassStatus {
	if len(sd.Grades) > 0 && OverallAverage(sd) >= models.PassThreshold {
		return models.PassStatusPassing
	}
	return models.PassStatusRemedial
}

// Round1 rounds to one decimal place, halves away from zero.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// SubjectMetricsFor computes the card figures for one subject.
func SubjectMetricsFor(sd models.SubjectData) models.SubjectMetrics {
	return models.SubjectMetrics{
		SubjectName:    sd.SubjectName,
		AssignmentAvg:  Round1(AverageByType(sd, models.GradeTypeAssignment)),
		ExamAvg:        Round1(AverageByType(sd, models.GradeTypeExam)),
		MidTermAvg:     Round1(AverageByType(sd, models.GradeTypeMidTerm)),
		OverallAverage: Round1(OverallAverage(sd)),
		Attendance:     TallyAttendance(sd),
		BehaviorScore:  sd.BehaviorScore(),
		PassStatus:     PassStatus(sd),
	}
}

// BuildReportRows produces one row per subject record matching the filter,
// for every student in the filter set.
func BuildReportRows(students []models.Student, classGroup, subjectName string) []models.ReportRow {
	rows := make([]models.ReportRow, 0, len(students))
	for _, st := range FilterStudents(students, classGroup, subjectName) {
		for _, sd := range st.Subjects {
			if !subjectMatches(sd.SubjectName, subjectName) {
				continue
			}
			rows = append(rows, models.ReportRow{
				Name:            st.Name,
				ID:              st.ID,
				ClassGroup:      st.ClassGroup,
				SubjectName:     sd.SubjectName,
				AssignmentAvg:   Round1(AverageByType(sd, models.GradeTypeAssignment)),
				ExamAvg:         Round1(AverageByType(sd, models.GradeTypeExam)),
				MidTermAvg:      Round1(AverageByType(sd, models.GradeTypeMidTerm)),
				PresentCount:    AttendanceTally(sd, models.AttendanceStatusPresent),
				AbsentCount:     AttendanceTally(sd, models.AttendanceStatusAbsent),
				BehaviorScore:   sd.BehaviorScore(),
				PassStatusLabel: PassStatus(sd),
			})
		}
	}
	return rows
}

func formatAverage(sd models.SubjectData, t models.GradeType) string {
	for _, g := range sd.Grades {
		if g.Type == t {
			return fmt.Sprintf("%.1f", AverageByType(sd, t))
		}
	}
	return "0"
}

// Digest renders one line per subject with the category averages and the
// present/absent counts, used as input for narrative summaries.
func Digest(st models.Student) string {
	lines := make([]string, 0, len(st.Subjects))
	for _, sd := range st.Subjects {
		lines = append(lines, fmt.Sprintf("%s: Assignment[%s], Exam[%s], MidTerm[%s], Present[%d], Absent[%d]",
			sd.SubjectName,
			formatAverage(sd, models.GradeTypeAssignment),
			formatAverage(sd, models.GradeTypeExam),
			formatAverage(sd, models.GradeTypeMidTerm),
			AttendanceTally(sd, models.AttendanceStatusPresent),
			AttendanceTally(sd, models.AttendanceStatusAbsent),
		))
	}
	return strings.Join(lines, "\n")
}

// Overview summarises the filter set: row counts by pass status, attendance
// recorded on date, and class-wide means per category over the matching
// subject records.
func Overview(students []models.Student, classGroup, subjectName, date string) models.Overview {
	filtered := FilterStudents(students, classGroup, subjectName)
	ov := models.Overview{StudentCount: len(filtered), Date: date}

	var sums [4]float64
	var counts [4]int
	add := func(i int, v float64) {
		sums[i] += v
		counts[i]++
	}
	for _, st := range filtered {
		for _, sd := range st.Subjects {
			if !subjectMatches(sd.SubjectName, subjectName) {
				continue
			}
			ov.SubjectRows++
			if PassStatus(sd) == models.PassStatusPassing {
				ov.PassingRows++
			} else {
				ov.RemedialRows++
			}
			for _, rec := range sd.Attendance {
				if rec.Date == date {
					ov.TodayAttendance.Add(rec.Status)
				}
			}
			for i, t := range models.GradeTypes {
				for _, g := range sd.Grades {
					if g.Type == t {
						add(i, g.Score)
					}
				}
			}
			if len(sd.BehaviorHistory) > 0 {
				add(3, sd.BehaviorScore())
			}
		}
	}

	mean := func(i int) float64 {
		if counts[i] == 0 {
			return 0
		}
		return Round1(sums[i] / float64(counts[i]))
	}
	ov.AssignmentAvg = mean(0)
	ov.ExamAvg = mean(1)
	ov.MidTermAvg = mean(2)
	ov.BehaviorAvg = mean(3)
	return ov
}
