package records

import "github.com/noah-isme/eduscan-api/internal/models"

func classMatches(classGroup, filter string) bool {
	return filter == models.FilterAll || filter == "" || classGroup == filter
}

func subjectMatches(subjectName, filter string) bool {
	return filter == models.FilterAll || filter == "" || subjectName == filter
}

// InFilter reports whether st belongs to the filter set: the class matches
// and at least one subject matches.
func InFilter(st models.Student, classGroup, subjectName string) bool {
	if !classMatches(st.ClassGroup, classGroup) {
		return false
	}
	for _, sd := range st.Subjects {
		if subjectMatches(sd.SubjectName, subjectName) {
			return true
		}
	}
	return false
}

// FilterStudents returns the filter set in collection order. Empty filter
// values behave like the wildcard.
func FilterStudents(students []models.Student, classGroup, subjectName string) []models.Student {
	out := make([]models.Student, 0, len(students))
	for _, st := range students {
		if InFilter(st, classGroup, subjectName) {
			out = append(out, st)
		}
	}
	return out
}

// ClassGroupsPresent lists distinct class groups in first-seen order,
// prefixed by the wildcard.
func ClassGroupsPresent(students []models.Student) []string {
	out := []string{models.FilterAll}
	seen := map[string]struct{}{}
	for _, st := range students {
		if _, ok := seen[st.ClassGroup]; ok {
			continue
		}
		seen[st.ClassGroup] = struct{}{}
		out = append(out, st.ClassGroup)
	}
	return out
}

// SubjectsPresent lists distinct subject names in first-seen order, prefixed
// by the wildcard.
func SubjectsPresent(students []models.Student) []string {
	out := []string{models.FilterAll}
	seen := map[string]struct{}{}
	for _, st := range students {
		for _, sd := range st.Subjects {
			if _, ok := seen[sd.SubjectName]; ok {
				continue
			}
			seen[sd.SubjectName] = struct{}{}
			out = append(out, sd.SubjectName)
		}
	}
	return out
}
