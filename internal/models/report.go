package models

// PassThreshold is the minimum mean score (KKM) counted as passing.
const PassThreshold = 75.0

// PassStatus classifies a subject mean against PassThreshold.
type PassStatus string

const (
	PassStatusPassing  PassStatus = "PASSING"
	PassStatusRemedial PassStatus = "REMEDIAL"
)

// ReportRow is one student×subject line of the exported report.
type ReportRow struct {
	Name            string     `json:"name"`
	ID              string     `json:"id"`
	ClassGroup      string     `json:"classGroup"`
	SubjectName     string     `json:"subjectName"`
	AssignmentAvg   float64    `json:"assignmentAvg"`
	ExamAvg         float64    `json:"examAvg"`
	MidTermAvg      float64    `json:"midTermAvg"`
	PresentCount    int        `json:"presentCount"`
	AbsentCount     int        `json:"absentCount"`
	BehaviorScore   float64    `json:"behaviorScore"`
	PassStatusLabel PassStatus `json:"passStatus"`
}

// SubjectMetrics are the per-subject figures shown on a student card.
type SubjectMetrics struct {
	SubjectName    string          `json:"subjectName"`
	AssignmentAvg  float64         `json:"assignmentAvg"`
	ExamAvg        float64         `json:"examAvg"`
	MidTermAvg     float64         `json:"midTermAvg"`
	OverallAverage float64         `json:"overallAverage"`
	Attendance     AttendanceTally `json:"attendance"`
	BehaviorScore  float64         `json:"behaviorScore"`
	PassStatus     PassStatus      `json:"passStatus"`
}

// Overview summarises the filter set for the dashboard.
type Overview struct {
	StudentCount    int             `json:"studentCount"`
	SubjectRows     int             `json:"subjectRows"`
	PassingRows     int             `json:"passingRows"`
	RemedialRows    int             `json:"remedialRows"`
	Date            string          `json:"date"`
	TodayAttendance AttendanceTally `json:"todayAttendance"`
	AssignmentAvg   float64         `json:"assignmentAvg"`
	ExamAvg         float64         `json:"examAvg"`
	MidTermAvg      float64         `json:"midTermAvg"`
	BehaviorAvg     float64         `json:"behaviorAvg"`
}
