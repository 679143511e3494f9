package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
)

// PostgresSnapshotRepository keeps the snapshot as a JSONB row keyed by
// snapshot name.
type PostgresSnapshotRepository struct {
	db  *sqlx.DB
	key string
}

// NewPostgresSnapshotRepository constructs the repository.
func NewPostgresSnapshotRepository(db *sqlx.DB, key string) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{db: db, key: key}
}

// EnsureSchema creates the snapshot table when missing.
func (r *PostgresSnapshotRepository) EnsureSchema(ctx context.Context) error {
	const query = `CREATE TABLE IF NOT EXISTS record_snapshots (
    key TEXT PRIMARY KEY,
    payload JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure record_snapshots: %w", err)
	}
	return nil
}

// Load fetches the snapshot row.
func (r *PostgresSnapshotRepository) Load(ctx context.Context) ([]models.Student, error) {
	const query = `SELECT payload FROM record_snapshots WHERE key = $1`
	var payload []byte
	if err := r.db.GetContext(ctx, &payload, query, r.key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, records.ErrNoSnapshot
		}
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	return decodeSnapshot(payload)
}

// Save upserts the snapshot row.
func (r *PostgresSnapshotRepository) Save(ctx context.Context, students []models.Student) error {
	const query = `INSERT INTO record_snapshots (key, payload, updated_at)
VALUES ($1, $2, $3)
ON CONFLICT (key)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	payload, err := encodeSnapshot(students)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, r.key, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
