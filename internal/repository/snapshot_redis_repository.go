package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/eduscan-api/internal/models"
	"github.com/noah-isme/eduscan-api/internal/records"
)

// RedisSnapshotRepository keeps the snapshot as a JSON string under one key,
// without expiry.
type RedisSnapshotRepository struct {
	client *redis.Client
	key    string
}

// NewRedisSnapshotRepository constructs the repository.
func NewRedisSnapshotRepository(client *redis.Client, key string) *RedisSnapshotRepository {
	return &RedisSnapshotRepository{client: client, key: key}
}

// Load fetches the snapshot key.
func (r *RedisSnapshotRepository) Load(ctx context.Context) ([]models.Student, error) {
	payload, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, records.ErrNoSnapshot
		}
		return nil, fmt.Errorf("redis get %s: %w", r.key, err)
	}
	return decodeSnapshot(payload)
}

// Save overwrites the snapshot key.
func (r *RedisSnapshotRepository) Save(ctx context.Context, students []models.Student) error {
	payload, err := encodeSnapshot(students)
	if err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.key, payload, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", r.key, err)
	}
	return nil
}
