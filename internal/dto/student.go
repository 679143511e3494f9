package dto

import (
	"strings"

	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
)

// StudentListQuery filters GET /students.
type StudentListQuery struct {
	ClassGroup  string `form:"class"`
	SubjectName string `form:"subject"`
}

// Filter converts the query into a normalized filter.
func (q StudentListQuery) Filter() models.StudentFilter {
	return models.StudentFilter{ClassGroup: q.ClassGroup, SubjectName: q.SubjectName}.Normalize()
}

// CreateStudentRequest enrolls one student in one subject.
type CreateStudentRequest struct {
	Name        string `json:"name" validate:"required"`
	ClassGroup  string `json:"classGroup" validate:"required"`
	SubjectName string `json:"subjectName" validate:"required"`
}

// BulkRosterRequest enrolls many names at once. Names may be given as a list,
// as newline separated text, or both.
type BulkRosterRequest struct {
	ClassGroup  string   `json:"classGroup" validate:"required"`
	SubjectName string   `json:"subjectName" validate:"required"`
	Names       []string `json:"names"`
	Text        string   `json:"text"`
}

// AllNames merges Names and the lines of Text.
func (r BulkRosterRequest) AllNames() []string {
	out := append([]string{}, r.Names...)
	if r.Text != "" {
		out = append(out, strings.Split(strings.ReplaceAll(r.Text, "\r\n", "\n"), "\n")...)
	}
	return out
}

// BulkRosterResponse reports the ids touched by a roster import.
type BulkRosterResponse struct {
	records.RosterResult
}

// StudentDetail is a student with per-subject metrics.
type StudentDetail struct {
	models.Student
	Metrics []models.SubjectMetrics `json:"metrics"`
}
