package models

// GradeType is the assessment category of a grade.
type GradeType string

const (
	GradeTypeAssignment GradeType = "assignment"
	GradeTypeExam       GradeType = "exam"
	GradeTypeMidTerm    GradeType = "uts"
)

// GradeTypes lists the categories in report order.
var GradeTypes = []GradeType{GradeTypeAssignment, GradeTypeExam, GradeTypeMidTerm}

// Valid returns true when the grade type is supported.
func (t GradeType) Valid() bool {
	switch t {
	case GradeTypeAssignment, GradeTypeExam, GradeTypeMidTerm:
		return true
	default:
		return false
	}
}

// Label is the human readable category name.
func (t GradeType) Label() string {
	switch t {
	case GradeTypeAssignment:
		return "Assignment"
	case GradeTypeExam:
		return "Exam"
	case GradeTypeMidTerm:
		return "MidTerm"
	default:
		return string(t)
	}
}

// Grade is a single scored assessment. Titles may repeat.
type Grade struct {
	Title string    `json:"title"`
	Score float64   `json:"score"`
	Type  GradeType `json:"type"`
	Date  string    `json:"date"`
}
