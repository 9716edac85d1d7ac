package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/student-management/internal/cache"
	"github.com/spec-kit/student-management/internal/config"
	"github.com/spec-kit/student-management/internal/observability"
	"github.com/spec-kit/student-management/internal/repository/memory"
	"github.com/spec-kit/student-management/internal/repository/repositorytest"
)

func TestOpenStore_Memory(t *testing.T) {
	cfg := config.Config{Store: config.StoreConfig{Kind: config.StoreMemory}}

	store, err := OpenStore(context.Background(), cfg, zap.NewNop(), nil)
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &memory.DepartmentRepository{}, store.Departments)
	assert.Empty(t, store.Checks())

	ctx := context.Background()
	saved, err := store.Departments.Save(ctx, repositorytest.ComputerScience())
	require.NoError(t, err)
	_, ok, err := store.Departments.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOpenStore_MemoryWithCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Config{
		Store: config.StoreConfig{Kind: config.StoreMemory},
		Redis: config.RedisConfig{Addr: mr.Addr()},
		Cache: config.CacheConfig{Enabled: true, TTLSeconds: 60, KeyPrefix: "dept:"},
	}

	store, err := OpenStore(context.Background(), cfg, zap.NewNop(), observability.NewMetrics())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &cache.DepartmentRepository{}, store.Departments)
	require.Contains(t, store.Checks(), "redis")
	require.NoError(t, store.Checks()["redis"].Ping(context.Background()))

	saved, err := store.Departments.Save(context.Background(), repositorytest.ComputerScience())
	require.NoError(t, err)
	assert.True(t, mr.Exists("dept:"+saved.ID))
	assert.Equal(t, time.Minute, mr.TTL("dept:"+saved.ID))
}

func TestOpenStore_UnknownKind(t *testing.T) {
	cfg := config.Config{Store: config.StoreConfig{Kind: "ldap"}}
	_, err := OpenStore(context.Background(), cfg, zap.NewNop(), nil)
	require.ErrorContains(t, err, "unknown store kind")
}

func TestOpenStore_PostgresWithoutDSN(t *testing.T) {
	cfg := config.Config{Store: config.StoreConfig{Kind: config.StorePostgres}}
	_, err := OpenStore(context.Background(), cfg, zap.NewNop(), nil)
	require.ErrorIs(t, err, ErrNoDSN)
}

func TestStore_CloseNil(t *testing.T) {
	var s *Store
	assert.NotPanics(t, s.Close)
	assert.NotPanics(t, (&Store{}).Close)
}
