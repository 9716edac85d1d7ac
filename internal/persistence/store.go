package persistence

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/student-management/internal/cache"
	"github.com/spec-kit/student-management/internal/config"
	"github.com/spec-kit/student-management/internal/observability"
	"github.com/spec-kit/student-management/internal/repository"
	"github.com/spec-kit/student-management/internal/repository/memory"
)

// Pinger is a dependency that can report its connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store owns the resources behind the department repository selected by configuration.
type Store struct {
	Kind        config.StoreKind
	Departments repository.DepartmentRepository
	Postgres    *Postgres
	Redis       *Redis
}

// OpenStore builds the department repository for cfg.Store.Kind, wrapping it with the Redis cache when enabled. Close releases whatever was opened.
func OpenStore(ctx context.Context, cfg config.Config, logger *zap.Logger, metrics *observability.Metrics) (*Store, error) {
	store := &Store{Kind: cfg.Store.Kind}

	switch cfg.Store.Kind {
	case config.StoreMemory:
		store.Departments = memory.NewDepartmentRepository()
	case config.StorePostgres:
		pg, err := NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		store.Postgres = pg
		store.Departments = repository.NewDepartmentRepository(pg.Pool)
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
	}

	if cfg.Cache.Enabled {
		store.Redis = NewRedis(ctx, cfg.Redis, logger)
		store.Departments = cache.NewDepartmentRepository(store.Departments, store.Redis.Client, cache.Options{
			TTL:       cfg.Cache.TTL(),
			KeyPrefix: cfg.Cache.KeyPrefix,
		}, logger.Named("cache"), metrics)
	}

	logger.Info("department store ready",
		zap.String("kind", string(store.Kind)),
		zap.Bool("cache", cfg.Cache.Enabled),
	)
	return store, nil
}

// Checks returns the external dependencies pinged for readiness.
func (s *Store) Checks() map[string]Pinger {
	checks := make(map[string]Pinger)
	if s.Postgres != nil {
		checks["postgres"] = s.Postgres
	}
	if s.Redis != nil {
		checks["redis"] = s.Redis
	}
	return checks
}

// Close releases pools and clients.
func (s *Store) Close() {
	if s == nil {
		return
	}
	s.Redis.Close()
	s.Postgres.Close()
}
