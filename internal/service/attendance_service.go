package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/eduscan-api/internal/dto"
	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
	appErrors "github.com/noah-isme/eduscan-api/pkg/errors"
	"github.com/noah-isme/eduscan-api/pkg/jobs"
)

// ScanJobType tags scan events on the job queue.
const ScanJobType = "scan_event"

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// AttendanceService records attendance directly and through the scan queue.
type AttendanceService struct {
	store     recordStore
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	queue     jobEnqueuer
	now       func() time.Time
}

// NewAttendanceService constructs the service.
func NewAttendanceService(store recordStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{
		store:     store,
		validator: registerValidators(validate),
		logger:    logger,
		metrics:   metrics,
		now:       time.Now,
	}
}

// UseScanQueue attaches the queue scans are pushed to.
func (s *AttendanceService) UseScanQueue(q jobEnqueuer) {
	s.queue = q
}

// Record sets one attendance status.
func (s *AttendanceService) Record(ctx context.Context, req dto.RecordAttendanceRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return invalidPayload(err, "invalid attendance payload")
	}
	return s.store.Apply(ctx, "record_attendance", func(tx *records.Tx) error {
		return records.RecordAttendance(tx, req.StudentID, req.SubjectName, req.Date, req.Status)
	})
}

// RecordBulk sets statuses for the filter set. Students absent from the
// request keep their current entry.
func (s *AttendanceService) RecordBulk(ctx context.Context, req dto.BulkAttendanceRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, invalidPayload(err, "invalid attendance payload")
	}
	var written int
	err := s.store.Apply(ctx, "record_bulk_attendance", func(tx *records.Tx) error {
		var err error
		written, err = records.RecordBulkAttendance(tx, req.ClassGroup, req.SubjectName, req.Date, req.Statuses)
		return err
	})
	return written, err
}

// EnqueueScan resolves the scanned id synchronously so the scanner gets an
// immediate lookup failure, then queues the attendance write.
func (s *AttendanceService) EnqueueScan(ctx context.Context, req dto.ScanRequest) (*dto.ScanAccepted, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, invalidPayload(err, "invalid scan payload")
	}
	subject, err := records.ConcreteSubject(req.SubjectName)
	if err != nil {
		s.metrics.RecordScan("rejected")
		return nil, err
	}
	id := strings.TrimSpace(req.StudentID)
	st, ok := s.store.FindStudentByID(id)
	if !ok {
		s.metrics.RecordScan("unknown")
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("student %q not found", id))
	}
	if st.Subject(subject) < 0 {
		s.metrics.RecordScan("not_enrolled")
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("%s is not enrolled in %s", st.Name, subject))
	}

	event := models.ScanEvent{
		ID:          uuid.NewString(),
		StudentID:   st.ID,
		SubjectName: subject,
		Timestamp:   s.now(),
	}
	if s.queue == nil {
		if err := s.applyScan(ctx, event); err != nil {
			return nil, err
		}
	} else if err := s.queue.Enqueue(jobs.Job{ID: event.ID, Type: ScanJobType, Payload: event}); err != nil {
		s.metrics.RecordScan("dropped")
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "scan queue is full")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "scan queue unavailable")
	}
	s.metrics.RecordScan("accepted")
	return &dto.ScanAccepted{Event: event, Student: st.Name}, nil
}

// HandleScan is the queue handler. Lookup failures are final.
func (s *AttendanceService) HandleScan(ctx context.Context, job jobs.Job) error {
	event, ok := job.Payload.(models.ScanEvent)
	if !ok {
		return jobs.Permanent(fmt.Errorf("unexpected payload %T", job.Payload))
	}
	err := s.applyScan(ctx, event)
	var appErr *appErrors.Error
	if errors.As(err, &appErr) && appErr.Status < 500 {
		return jobs.Permanent(err)
	}
	return err
}

func (s *AttendanceService) applyScan(ctx context.Context, event models.ScanEvent) error {
	err := s.store.Apply(ctx, "scan_attendance", func(tx *records.Tx) error {
		return records.RecordAttendance(tx, event.StudentID, event.SubjectName, event.Date(), models.AttendanceStatusPresent)
	})
	if err != nil {
		return err
	}
	s.logger.Info("scan recorded",
		zap.String("event_id", event.ID),
		zap.String("student_id", event.StudentID),
		zap.String("subject", event.SubjectName),
		zap.String("date", event.Date()),
	)
	return nil
}
