package models

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "H"
	AttendanceStatusSick    AttendanceStatus = "S"
	AttendanceStatusExcused AttendanceStatus = "I"
	AttendanceStatusAbsent  AttendanceStatus = "A"
)

// AttendanceStatuses lists every status in display order.
var AttendanceStatuses = []AttendanceStatus{
	AttendanceStatusPresent,
	AttendanceStatusSick,
	AttendanceStatusExcused,
	AttendanceStatusAbsent,
}

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusSick, AttendanceStatusExcused, AttendanceStatusAbsent:
		return true
	default:
		return false
	}
}

// AttendanceRecord is the status for one calendar date. A SubjectData holds at
// most one record per date.
type AttendanceRecord struct {
	Date   string           `json:"date"`
	Status AttendanceStatus `json:"status"`
}

// AttendanceTally counts records per status.
type AttendanceTally struct {
	Present int `json:"present"`
	Sick    int `json:"sick"`
	Excused int `json:"excused"`
	Absent  int `json:"absent"`
}

// Add increments the counter for status.
func (t *AttendanceTally) Add(status AttendanceStatus) {
	switch status {
	case AttendanceStatusPresent:
		t.Present++
	case AttendanceStatusSick:
		t.Sick++
	case AttendanceStatusExcused:
		t.Excused++
	case AttendanceStatusAbsent:
		t.Absent++
	}
}
