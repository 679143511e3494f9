package records

import "github.com/noah-isme/eduscan-api/internal/models"

// DemoStudents is the record a fresh install starts with.
func DemoStudents() []models.Student {
	return []models.Student{{
		ID:         "1001",
		Name:       "Budi Santoso",
		ClassGroup: "7-A",
		Subjects: []models.SubjectData{{
			SubjectName: "Matematika",
			Attendance:  []models.AttendanceRecord{{Date: "2023-10-01", Status: models.AttendanceStatusPresent}},
			Grades: []models.Grade{
				{Title: "Tugas 1", Score: 80, Type: models.GradeTypeAssignment, Date: "2023-10-01"},
				{Title: "UTS Ganjil", Score: 85, Type: models.GradeTypeMidTerm, Date: "2023-10-15"},
				{Title: "Ulangan Harian 1", Score: 90, Type: models.GradeTypeExam, Date: "2023-12-01"},
			},
			BehaviorHistory: []models.BehaviorRecord{{Date: "2023-10-01", Score: 85}},
		}},
	}}
}
