package repository

import (
	"context"
	"errors"
	"os"

	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
	"github.com/noah-isme/eduscan-api/pkg/storage"
)

// FileSnapshotRepository keeps the snapshot as one JSON file on local disk.
type FileSnapshotRepository struct {
	storage  *storage.LocalStorage
	filename string
}

// NewFileSnapshotRepository stores the snapshot as <key>.json inside the
// storage root.
func NewFileSnapshotRepository(store *storage.LocalStorage, key string) *FileSnapshotRepository {
	return &FileSnapshotRepository{storage: store, filename: key + ".json"}
}

// Load reads the snapshot file.
func (r *FileSnapshotRepository) Load(ctx context.Context) ([]models.Student, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload, err := r.storage.ReadFile(r.filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, records.ErrNoSnapshot
		}
		return nil, err
	}
	return decodeSnapshot(payload)
}

// Save replaces the snapshot file atomically.
func (r *FileSnapshotRepository) Save(ctx context.Context, students []models.Student) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := encodeSnapshot(students)
	if err != nil {
		return err
	}
	return r.storage.SaveAtomic(r.filename, payload)
}
