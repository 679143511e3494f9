package records

import (
	"fmt"
	"strings"
	"time"

	"github.com/noah-isme/eduscan-api/internal/models"
	appErrors "github.com/noah-isme/eduscan-api/pkg/errors"
)

func validationError(format string, args ...interface{}) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf(format, args...))
}

func requireText(field, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", validationError("%s is required", field)
	}
	return v, nil
}

// ConcreteSubject trims subjectName and rejects blank and wildcard subjects.
func ConcreteSubject(subjectName string) (string, error) {
	v := strings.TrimSpace(subjectName)
	if v == "" {
		return "", validationError("subjectName is required")
	}
	if v == models.FilterAll {
		return "", appErrors.Clone(appErrors.ErrNotApplicable, "select a specific subject")
	}
	return v, nil
}

// ValidDate reports whether s is a YYYY-MM-DD calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

func resolveDate(tx *Tx, date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return tx.Today(), nil
	}
	if !ValidDate(date) {
		return "", validationError("date %q must be formatted as YYYY-MM-DD", date)
	}
	return date, nil
}

func validBehaviorScore(score float64) bool {
	return score >= 0 && score <= 100
}

// ValidateCollection checks a whole collection before it replaces the live
// one: ids unique and present, subjects unique per student, one attendance
// record per date, known status and grade codes.
func ValidateCollection(students []models.Student) error {
	seen := make(map[string]struct{}, len(students))
	for i, st := range students {
		if strings.TrimSpace(st.ID) == "" {
			return validationError("student %d has no id", i)
		}
		if _, dup := seen[st.ID]; dup {
			return validationError("duplicate student id %q", st.ID)
		}
		seen[st.ID] = struct{}{}

		subjects := make(map[string]struct{}, len(st.Subjects))
		for _, sd := range st.Subjects {
			if _, dup := subjects[sd.SubjectName]; dup {
				return validationError("student %q lists subject %q twice", st.ID, sd.SubjectName)
			}
			subjects[sd.SubjectName] = struct{}{}

			dates := make(map[string]struct{}, len(sd.Attendance))
			for _, rec := range sd.Attendance {
				if !rec.Status.Valid() {
					return validationError("student %q has unknown attendance status %q", st.ID, rec.Status)
				}
				if _, dup := dates[rec.Date]; dup {
					return validationError("student %q has two %s attendance records on %s", st.ID, sd.SubjectName, rec.Date)
				}
				dates[rec.Date] = struct{}{}
			}
			for _, g := range sd.Grades {
				if !g.Type.Valid() {
					return validationError("student %q has unknown grade type %q", st.ID, g.Type)
				}
			}
		}
	}
	return nil
}
