package models

import "time"

// ScanEvent is a decoded barcode waiting to be recorded as attendance.
type ScanEvent struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	SubjectName string    `json:"subjectName"`
	Timestamp   time.Time `json:"timestamp"`
}

// Date is the calendar date of the scan in its own location.
func (e ScanEvent) Date() string {
	return e.Timestamp.Format(DateLayout)
}
