package dto

import "github.com/noah-isme/eduscan-api/internal/models"

// ReportQuery filters report endpoints.
type ReportQuery struct {
	ClassGroup  string `form:"class"`
	SubjectName string `form:"subject"`
	Date        string `form:"date" validate:"omitempty,iso_date"`
}

// Filter converts the query into a normalized filter.
func (q ReportQuery) Filter() models.StudentFilter {
	return models.StudentFilter{ClassGroup: q.ClassGroup, SubjectName: q.SubjectName}.Normalize()
}

// ExportRequest renders the report rows to a downloadable file.
type ExportRequest struct {
	ClassGroup  string              `json:"classGroup"`
	SubjectName string              `json:"subjectName"`
	Format      models.ExportFormat `json:"format" validate:"omitempty,oneof=csv xlsx pdf"`
}

// Filter converts the request into a normalized filter.
func (r ExportRequest) Filter() models.StudentFilter {
	return models.StudentFilter{ClassGroup: r.ClassGroup, SubjectName: r.SubjectName}.Normalize()
}
