package models

// FilterAll is the wildcard value for class and subject filters.
const FilterAll = "all"

// DateLayout is the calendar date format used throughout the records.
const DateLayout = "2006-01-02"

// StudentFilter selects students by class group and subject.
type StudentFilter struct {
	ClassGroup  string `json:"classGroup"`
	SubjectName string `json:"subjectName"`
}

// Normalize maps empty values to the wildcard.
func (f StudentFilter) Normalize() StudentFilter {
	if f.ClassGroup == "" {
		f.ClassGroup = FilterAll
	}
	if f.SubjectName == "" {
		f.SubjectName = FilterAll
	}
	return f
}

// FilterOptions lists the values a filter dropdown can offer.
type FilterOptions struct {
	ClassGroups []string `json:"classGroups"`
	Subjects    []string `json:"subjects"`
}
