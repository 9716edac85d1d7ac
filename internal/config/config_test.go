package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestBuild_Defaults(t *testing.T) {
	cfg, err := build(mapEnv(nil))
	require.NoError(t, err)

	assert.Equal(t, ProfileDefault, cfg.App.Profile)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, int32(10), cfg.Postgres.MaxConns)
	assert.True(t, cfg.Postgres.RunMigrations)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL())
	assert.Equal(t, "info", cfg.Logger.Level)
}

func TestBuild_InvalidRedisDB(t *testing.T) {
	_, err := build(mapEnv(map[string]string{"REDIS_DB": "zero"}))
	require.Error(t, err)
}

func TestResolveStore(t *testing.T) {
	t.Run("test profile selects memory", func(t *testing.T) {
		cfg, err := build(mapEnv(map[string]string{"APP_PROFILE": "TEST"}))
		require.NoError(t, err)
		cfg.resolveStore()
		assert.Equal(t, StoreMemory, cfg.Store.Kind)
		require.NoError(t, cfg.Validate())
	})

	t.Run("other profiles select postgres", func(t *testing.T) {
		cfg, err := build(mapEnv(map[string]string{"APP_PROFILE": "prod", "POSTGRES_DSN": "postgres://localhost/sm"}))
		require.NoError(t, err)
		cfg.resolveStore()
		assert.Equal(t, StorePostgres, cfg.Store.Kind)
		require.NoError(t, cfg.Validate())
	})

	t.Run("explicit store kind wins", func(t *testing.T) {
		cfg, err := build(mapEnv(map[string]string{"APP_PROFILE": "prod", "STORE_KIND": "memory"}))
		require.NoError(t, err)
		cfg.resolveStore()
		assert.Equal(t, StoreMemory, cfg.Store.Kind)
	})
}

func TestValidate(t *testing.T) {
	cfg, err := build(mapEnv(map[string]string{"STORE_KIND": "postgres"}))
	require.NoError(t, err)
	cfg.resolveStore()
	require.ErrorContains(t, cfg.Validate(), "POSTGRES_DSN")

	cfg.Store.Kind = "cassandra"
	require.ErrorContains(t, cfg.Validate(), "unknown store kind")

	cfg.Store.Kind = StoreMemory
	cfg.Cache.Enabled = true
	cfg.Redis.Addr = ""
	require.ErrorContains(t, cfg.Validate(), "REDIS_ADDR")
}

func TestApplyYAML(t *testing.T) {
	cfg, err := build(mapEnv(nil))
	require.NoError(t, err)

	doc := []byte(`
app:
  profile: Test
  port: "9090"
cache:
  enabled: true
  ttl_seconds: 60
`)
	require.NoError(t, cfg.ApplyYAML(doc))

	assert.Equal(t, ProfileTest, cfg.App.Profile)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "0.0.0.0", cfg.App.Host)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, time.Minute, cfg.Cache.TTL())

	require.NoError(t, applyEnv(cfg, mapEnv(map[string]string{"APP_PROFILE": "prod", "CACHE_TTL_SECONDS": "90"})))
	assert.Equal(t, ProfileProd, cfg.App.Profile)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL())
	assert.Equal(t, "9090", cfg.App.Port)
}

func TestApplyYAML_Malformed(t *testing.T) {
	cfg, err := build(mapEnv(nil))
	require.NoError(t, err)
	require.Error(t, cfg.ApplyYAML([]byte("app: [")))
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
store:
  kind: memory
app:
  port: "9090"
redis:
  password: from-file
cache:
  ttl_seconds: 60
logger:
  level: debug
`), 0o600))

	for _, key := range []string{"APP_PROFILE", "STORE_KIND", "POSTGRES_DSN", "LOG_LEVEL", "CACHE_ENABLED"} {
		t.Setenv(key, "")
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("APP_PORT", "7070")
	t.Setenv("REDIS_PASSWORD", "from-env")
	t.Setenv("CACHE_TTL_SECONDS", "120")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "7070", cfg.App.Port)
	assert.Equal(t, "from-env", cfg.Redis.Password)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL())
	// keys not set in the environment keep the file's value
	assert.Equal(t, StoreMemory, cfg.Store.Kind)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("STORE_KIND", "memory")
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	require.ErrorContains(t, err, "REDIS_DB")
}
