package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/eduscan-api/internal/dto"
	"github.com/noah-isme/eduscan-api/internal/records"
)

// GradeService writes bulk grade entries.
type GradeService struct {
	store     recordStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs the service.
func NewGradeService(store recordStore, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{store: store, validator: registerValidators(validate), logger: logger}
}

// RecordBulk appends one grade to every student in the filter set.
func (s *GradeService) RecordBulk(ctx context.Context, req dto.BulkGradeRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, invalidPayload(err, "invalid grade payload")
	}
	var written int
	err := s.store.Apply(ctx, "record_bulk_grade", func(tx *records.Tx) error {
		var err error
		written, err = records.RecordBulkGrade(tx, req.ClassGroup, req.SubjectName, req.Title, req.Type, req.Date, req.Scores)
		return err
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("grades recorded",
		zap.String("subject", req.SubjectName),
		zap.String("title", req.Title),
		zap.String("type", string(req.Type)),
		zap.Int("written", written),
	)
	return written, nil
}

// BehaviorService writes bulk behavior ratings.
type BehaviorService struct {
	store     recordStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBehaviorService constructs the service.
func NewBehaviorService(store recordStore, validate *validator.Validate, logger *zap.Logger) *BehaviorService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BehaviorService{store: store, validator: registerValidators(validate), logger: logger}
}

// RecordBulk appends a rating for every listed student in the filter set.
func (s *BehaviorService) RecordBulk(ctx context.Context, req dto.BulkBehaviorRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, invalidPayload(err, "invalid behavior payload")
	}
	var written int
	err := s.store.Apply(ctx, "record_bulk_behavior", func(tx *records.Tx) error {
		var err error
		written, err = records.RecordBulkBehavior(tx, req.ClassGroup, req.SubjectName, req.Date, req.Scores)
		return err
	})
	return written, err
}
