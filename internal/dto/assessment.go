package dto

import "github.com/noah-isme/eduscan-api/internal/models"

// BulkGradeRequest appends one grade to every student in the filter set.
// Students missing from Scores receive 0.
type BulkGradeRequest struct {
	ClassGroup  string             `json:"classGroup"`
	SubjectName string             `json:"subjectName" validate:"required"`
	Title       string             `json:"title" validate:"required"`
	Type        models.GradeType   `json:"type" validate:"required,grade_type"`
	Date        string             `json:"date" validate:"omitempty,iso_date"`
	Scores      map[string]float64 `json:"scores"`
}

// BulkBehaviorRequest appends behavior ratings for part of the filter set.
type BulkBehaviorRequest struct {
	ClassGroup  string             `json:"classGroup"`
	SubjectName string             `json:"subjectName" validate:"required"`
	Date        string             `json:"date" validate:"omitempty,iso_date"`
	Scores      map[string]float64 `json:"scores" validate:"required,min=1,dive,min=0,max=100"`
}
