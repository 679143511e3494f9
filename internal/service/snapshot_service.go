package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/eduscan-api/internal/models"
)

// SnapshotService exposes whole-collection backup and restore.
type SnapshotService struct {
	store  recordStore
	logger *zap.Logger
}

// NewSnapshotService constructs the service.
func NewSnapshotService(store recordStore, logger *zap.Logger) *SnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SnapshotService{store: store, logger: logger}
}

// Export returns the full collection.
func (s *SnapshotService) Export() []models.Student {
	return s.store.Snapshot()
}

// Restore replaces the collection after validating it.
func (s *SnapshotService) Restore(ctx context.Context, students []models.Student) error {
	if students == nil {
		students = []models.Student{}
	}
	if err := s.store.ReplaceAll(ctx, students); err != nil {
		return err
	}
	s.logger.Warn("record collection replaced", zap.Int("students", len(students)))
	return nil
}
