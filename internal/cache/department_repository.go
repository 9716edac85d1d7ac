// Package cache provides a Redis read-through cache in front of a department store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/student-management/internal/domain"
	"github.com/spec-kit/student-management/internal/observability"
	"github.com/spec-kit/student-management/internal/repository"
)

const defaultKeyPrefix = "department:"

// Options tune the cache.
type Options struct {
	TTL       time.Duration
	KeyPrefix string
}

// DepartmentRepository caches departments found in or written to the wrapped store.
// Absence is never cached. Redis failures are logged and bypassed; errors from the
// wrapped store are returned unchanged.
type DepartmentRepository struct {
	next    repository.DepartmentRepository
	client  redis.Cmdable
	ttl     time.Duration
	prefix  string
	logger  *zap.Logger
	metrics *observability.Metrics
}

var _ repository.DepartmentRepository = (*DepartmentRepository)(nil)

type cachedDepartment struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Phone    string `json:"phone"`
	Head     string `json:"head"`
}

// NewDepartmentRepository wraps next with a cache held in client.
func NewDepartmentRepository(next repository.DepartmentRepository, client redis.Cmdable, opts Options, logger *zap.Logger, metrics *observability.Metrics) *DepartmentRepository {
	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &DepartmentRepository{
		next:    next,
		client:  client,
		ttl:     opts.TTL,
		prefix:  prefix,
		logger:  logger,
		metrics: metrics,
	}
}

// Save writes through to the wrapped store, then refreshes the cache entry.
func (r *DepartmentRepository) Save(ctx context.Context, dept *domain.Department) (*domain.Department, error) {
	saved, err := r.next.Save(ctx, dept)
	if err != nil {
		return nil, err
	}
	r.put(ctx, saved)
	return saved, nil
}

// FindByID serves from the cache when possible and fills it on a store hit.
func (r *DepartmentRepository) FindByID(ctx context.Context, id string) (*domain.Department, bool, error) {
	id, ok := repository.CanonicalID(id)
	if !ok {
		return nil, false, nil
	}
	if dept, ok := r.get(ctx, id); ok {
		return dept, true, nil
	}

	dept, found, err := r.next.FindByID(ctx, id)
	if err != nil || !found {
		return nil, false, err
	}
	r.put(ctx, dept)
	return dept, true, nil
}

func (r *DepartmentRepository) key(id string) string {
	return r.prefix + id
}

func (r *DepartmentRepository) get(ctx context.Context, id string) (*domain.Department, bool) {
	raw, err := r.client.Get(ctx, r.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		r.metrics.RecordCacheLookup(observability.CacheMiss)
		return nil, false
	}
	if err != nil {
		r.metrics.RecordCacheLookup(observability.CacheError)
		r.logger.Warn("department cache read failed", zap.String("id", id), zap.Error(err))
		return nil, false
	}

	var entry cachedDepartment
	if err := json.Unmarshal(raw, &entry); err != nil {
		r.metrics.RecordCacheLookup(observability.CacheError)
		r.logger.Warn("discarding corrupt department cache entry", zap.String("id", id), zap.Error(err))
		r.client.Del(ctx, r.key(id))
		return nil, false
	}
	r.metrics.RecordCacheLookup(observability.CacheHit)
	return &domain.Department{
		ID:       entry.ID,
		Name:     entry.Name,
		Location: entry.Location,
		Phone:    entry.Phone,
		Head:     entry.Head,
	}, true
}

func (r *DepartmentRepository) put(ctx context.Context, dept *domain.Department) {
	raw, err := json.Marshal(cachedDepartment{
		ID:       dept.ID,
		Name:     dept.Name,
		Location: dept.Location,
		Phone:    dept.Phone,
		Head:     dept.Head,
	})
	if err != nil {
		r.logger.Warn("encode department cache entry", zap.String("id", dept.ID), zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, r.key(dept.ID), raw, r.ttl).Err(); err != nil {
		r.logger.Warn("department cache write failed", zap.String("id", dept.ID), zap.Error(err))
	}
}
