package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduscan-api/internal/dto"
	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
	"github.com/noah-isme/eduscan-api/pkg/qrcode"
)

// StudentService manages the roster.
type StudentService struct {
	store     recordStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the service.
func NewStudentService(store recordStore, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: store, validator: registerValidators(validate), logger: logger}
}

// List returns the filter set.
func (s *StudentService) List(filter models.StudentFilter) []models.Student {
	filter = filter.Normalize()
	return records.FilterStudents(s.store.Snapshot(), filter.ClassGroup, filter.SubjectName)
}

// Get returns one student with per-subject metrics.
func (s *StudentService) Get(id string) (*dto.StudentDetail, error) {
	st, ok := s.store.FindStudentByID(id)
	if !ok {
		return nil, studentNotFound(id)
	}
	detail := &dto.StudentDetail{Student: st, Metrics: make([]models.SubjectMetrics, 0, len(st.Subjects))}
	for _, sd := range st.Subjects {
		detail.Metrics = append(detail.Metrics, records.SubjectMetricsFor(sd))
	}
	return detail, nil
}

// Filters lists the class groups and subjects present on the roster.
func (s *StudentService) Filters() models.FilterOptions {
	students := s.store.Snapshot()
	return models.FilterOptions{
		ClassGroups: records.ClassGroupsPresent(students),
		Subjects:    records.SubjectsPresent(students),
	}
}

// Create enrolls one student in one subject.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid student payload")
	}
	var created models.Student
	err := s.store.Apply(ctx, "add_student", func(tx *records.Tx) error {
		var err error
		created, err = records.AddSingleStudent(tx, req.Name, req.ClassGroup, req.SubjectName)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("student enrolled", zap.String("student_id", created.ID), zap.String("class", created.ClassGroup), zap.String("subject", req.SubjectName))
	return &created, nil
}

// BulkCreate imports a roster for one class and subject.
func (s *StudentService) BulkCreate(ctx context.Context, req dto.BulkRosterRequest) (*records.RosterResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid roster payload")
	}
	var result records.RosterResult
	err := s.store.Apply(ctx, "add_roster", func(tx *records.Tx) error {
		var err error
		result, err = records.AddBulkRoster(tx, req.ClassGroup, req.SubjectName, req.AllNames())
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("roster imported",
		zap.String("class", req.ClassGroup),
		zap.String("subject", req.SubjectName),
		zap.Int("created", len(result.Created)),
		zap.Int("merged", len(result.Merged)),
		zap.Int("skipped", len(result.Skipped)),
	)
	return &result, nil
}

// Delete removes a student. Deleting an unknown id succeeds.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	return s.store.Apply(ctx, "delete_student", func(tx *records.Tx) error {
		if records.DeleteStudent(tx, id) {
			s.logger.Info("student deleted", zap.String("student_id", id))
		}
		return nil
	})
}

// QRCode renders the student's id as a PNG and suggests a file name.
func (s *StudentService) QRCode(id string) ([]byte, string, error) {
	st, ok := s.store.FindStudentByID(id)
	if !ok {
		return nil, "", studentNotFound(id)
	}
	png, err := qrcode.PNG(st.ID, qrcode.DefaultSize)
	if err != nil {
		return nil, "", err
	}
	name := sanitizeFilename(strings.Join(strings.Fields(st.Name), "_"))
	return png, fmt.Sprintf("QR_%s_%s.png", name, sanitizeFilename(st.ID)), nil
}
