package dto

import "github.com/noah-isme/eduscan-api/internal/models"

// RecordAttendanceRequest sets one attendance status. Date defaults to today
// and Status to present.
type RecordAttendanceRequest struct {
	StudentID   string                  `json:"studentId" validate:"required"`
	SubjectName string                  `json:"subjectName" validate:"required"`
	Date        string                  `json:"date" validate:"omitempty,iso_date"`
	Status      models.AttendanceStatus `json:"status" validate:"omitempty,attendance_status"`
}

// BulkAttendanceRequest sets statuses for part of the filter set.
type BulkAttendanceRequest struct {
	ClassGroup  string                             `json:"classGroup"`
	SubjectName string                             `json:"subjectName" validate:"required"`
	Date        string                             `json:"date" validate:"omitempty,iso_date"`
	Statuses    map[string]models.AttendanceStatus `json:"statuses" validate:"required,min=1,dive,attendance_status"`
}

// ScanRequest is a decoded barcode from the scanner page.
type ScanRequest struct {
	StudentID   string `json:"studentId" validate:"required"`
	SubjectName string `json:"subjectName" validate:"required"`
}

// ScanAccepted acknowledges a queued scan.
type ScanAccepted struct {
	Event   models.ScanEvent `json:"event"`
	Student string           `json:"student"`
}

// BulkWriteResponse reports how many records a bulk operation wrote.
type BulkWriteResponse struct {
	Written int `json:"written"`
}
