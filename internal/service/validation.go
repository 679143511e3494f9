package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
	appErrors "github.com/noah-isme/eduscan-api/pkg/errors"
)

// recordStore is the part of records.Store the services depend on.
type recordStore interface {
	Apply(ctx context.Context, name string, fn func(*records.Tx) error) error
	ReplaceAll(ctx context.Context, students []models.Student) error
	Snapshot() []models.Student
	FindStudentByID(id string) (models.Student, bool)
}

// registerValidators installs the record-specific validation tags.
func registerValidators(v *validator.Validate) *validator.Validate {
	if v == nil {
		v = validator.New()
	}
	_ = v.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("grade_type", func(fl validator.FieldLevel) bool {
		return models.GradeType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("iso_date", func(fl validator.FieldLevel) bool {
		return records.ValidDate(fl.Field().String())
	})
	return v
}

func invalidPayload(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func studentNotFound(id string) error {
	return appErrors.Clone(appErrors.ErrNotFound, "student "+id+" not found")
}

func today(now func() time.Time) string {
	return now().Format(models.DateLayout)
}
