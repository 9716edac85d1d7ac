package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/student-management/internal/cache"
	"github.com/spec-kit/student-management/internal/domain"
	"github.com/spec-kit/student-management/internal/observability"
	"github.com/spec-kit/student-management/internal/repository"
	"github.com/spec-kit/student-management/internal/repository/memory"
	"github.com/spec-kit/student-management/internal/repository/repositorytest"
)

type countingRepo struct {
	repository.DepartmentRepository
	finds   int
	findErr error
}

func (c *countingRepo) FindByID(ctx context.Context, id string) (*domain.Department, bool, error) {
	c.finds++
	if c.findErr != nil {
		return nil, false, c.findErr
	}
	return c.DepartmentRepository.FindByID(ctx, id)
}

func setup(t *testing.T, ttl time.Duration) (*cache.DepartmentRepository, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	backing := &countingRepo{DepartmentRepository: memory.NewDepartmentRepository()}
	repo := cache.NewDepartmentRepository(backing, client, cache.Options{TTL: ttl}, zap.NewNop(), observability.NewMetrics())
	return repo, backing, mr
}

func TestDepartmentRepository_Contract(t *testing.T) {
	repositorytest.RunDepartmentContract(t, func(t *testing.T) repository.DepartmentRepository {
		repo, _, _ := setup(t, time.Minute)
		return repo
	})
}

func TestDepartmentRepository_SaveWritesThrough(t *testing.T) {
	repo, backing, mr := setup(t, time.Minute)
	ctx := context.Background()

	saved, err := repo.Save(ctx, repositorytest.ComputerScience())
	require.NoError(t, err)
	assert.True(t, mr.Exists("department:"+saved.ID))

	found, ok, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, saved, found)
	assert.Equal(t, 0, backing.finds, "cached read must not reach the store")
}

func TestDepartmentRepository_FillsOnMiss(t *testing.T) {
	repo, backing, mr := setup(t, time.Minute)
	ctx := context.Background()

	// written behind the cache's back
	saved, err := backing.Save(ctx, repositorytest.ComputerScience())
	require.NoError(t, err)

	_, ok, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, backing.finds)
	assert.True(t, mr.Exists("department:"+saved.ID))

	_, ok, err = repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, backing.finds)
}

func TestDepartmentRepository_AbsenceNotCached(t *testing.T) {
	repo, backing, mr := setup(t, time.Minute)

	_, ok, err := repo.FindByID(context.Background(), "4f9c1d7e-8a1b-4c3d-9e2f-0a1b2c3d4e5f")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, backing.finds)
	assert.Empty(t, mr.Keys())
}

func TestDepartmentRepository_EntriesExpire(t *testing.T) {
	repo, backing, mr := setup(t, time.Minute)
	ctx := context.Background()

	saved, err := repo.Save(ctx, repositorytest.ComputerScience())
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	assert.False(t, mr.Exists("department:"+saved.ID))

	_, ok, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, backing.finds)
}

func TestDepartmentRepository_CorruptEntryFallsBack(t *testing.T) {
	repo, backing, mr := setup(t, time.Minute)
	ctx := context.Background()

	saved, err := repo.Save(ctx, repositorytest.ComputerScience())
	require.NoError(t, err)
	require.NoError(t, mr.Set("department:"+saved.ID, "{not json"))

	found, ok, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Computer Science", found.Name)
	assert.Equal(t, 1, backing.finds)
}

func TestDepartmentRepository_RedisDownFallsBack(t *testing.T) {
	repo, backing, mr := setup(t, time.Minute)
	ctx := context.Background()

	saved, err := repo.Save(ctx, repositorytest.ComputerScience())
	require.NoError(t, err)

	mr.Close()

	found, ok, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Computer Science", found.Name)
	assert.Equal(t, 1, backing.finds)

	again, err := repo.Save(ctx, repositorytest.ComputerScience())
	require.NoError(t, err)
	assert.NotEqual(t, saved.ID, again.ID)
}

func TestDepartmentRepository_StoreFailurePropagates(t *testing.T) {
	repo, backing, _ := setup(t, time.Minute)
	storeDown := errors.New("store unavailable")
	backing.findErr = storeDown

	_, ok, err := repo.FindByID(context.Background(), "4f9c1d7e-8a1b-4c3d-9e2f-0a1b2c3d4e5f")
	require.ErrorIs(t, err, storeDown)
	assert.False(t, ok)
}
