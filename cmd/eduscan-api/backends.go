package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/eduscan-api/internal/records"
	"github.com/noah-isme/eduscan-api/internal/repository"
	"github.com/noah-isme/eduscan-api/pkg/cache"
	"github.com/noah-isme/eduscan-api/pkg/config"
	"github.com/noah-isme/eduscan-api/pkg/database"
	"github.com/noah-isme/eduscan-api/pkg/storage"
)

// openRedis connects when Redis is enabled or selected as the snapshot backend.
func openRedis(ctx context.Context, cfg *config.Config, logr *zap.Logger) (*redis.Client, error) {
	if !cfg.Redis.Enabled && cfg.Snapshot.Backend != config.SnapshotBackendRedis {
		return nil, nil
	}
	client, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return nil, err
	}
	logr.Info("redis connected", zap.String("addr", cache.Addr(cfg.Redis)))
	return client, nil
}

// openPersister builds the snapshot backend named by SNAPSHOT_BACKEND.
func openPersister(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (records.Persister, func(), error) {
	noop := func() {}
	switch cfg.Snapshot.Backend {
	case "", config.SnapshotBackendFile:
		files, err := storage.NewLocalStorage(cfg.Snapshot.Dir)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewFileSnapshotRepository(files, cfg.Snapshot.Key), noop, nil
	case config.SnapshotBackendRedis:
		return repository.NewRedisSnapshotRepository(redisClient, cfg.Snapshot.Key), noop, nil
	case config.SnapshotBackendPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, noop, err
		}
		repo := repository.NewPostgresSnapshotRepository(db, cfg.Snapshot.Key)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, noop, err
		}
		return repo, func() { _ = db.Close() }, nil
	default:
		return nil, noop, fmt.Errorf("unknown snapshot backend %q", cfg.Snapshot.Backend)
	}
}
