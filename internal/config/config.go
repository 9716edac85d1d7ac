package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Profile selects a named set of defaults, mirroring the deployment environment.
type Profile string

const (
	ProfileDefault Profile = "default"
	ProfileDev     Profile = "dev"
	ProfileTest    Profile = "test"
	ProfileProd    Profile = "prod"
)

// StoreKind names the concrete store backing the department repository.
type StoreKind string

const (
	StoreMemory   StoreKind = "memory"
	StorePostgres StoreKind = "postgres"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Store    StoreConfig    `yaml:"store"`
	Postgres PostgresConfig `yaml:"postgres"`
	Redis    RedisConfig    `yaml:"redis"`
	Cache    CacheConfig    `yaml:"cache"`
	Logger   LoggerConfig   `yaml:"logger"`
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string  `yaml:"name"`
	Profile               Profile `yaml:"profile"`
	Host                  string  `yaml:"host"`
	Port                  string  `yaml:"port"`
	Version               string  `yaml:"version"`
	RequestTimeoutSeconds int     `yaml:"request_timeout_seconds"`
}

// StoreConfig holds the resolved store selection.
type StoreConfig struct {
	Kind StoreKind `yaml:"kind"`
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string `yaml:"dsn"`
	MaxConns       int32  `yaml:"max_conns"`
	MinConns       int32  `yaml:"min_conns"`
	RunMigrations  bool   `yaml:"run_migrations"`
	ConnMaxIdleSec int32  `yaml:"conn_max_idle_seconds"`
	ConnMaxLifeSec int32  `yaml:"conn_max_life_seconds"`
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// CacheConfig toggles the read-through department cache.
type CacheConfig struct {
	Enabled    bool   `yaml:"enabled"`
	TTLSeconds int    `yaml:"ttl_seconds"`
	KeyPrefix  string `yaml:"key_prefix"`
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration for the active profile. Sources are applied in order:
// defaults, .env.<profile> and .env files, the YAML file named by CONFIG_FILE,
// then explicitly set environment variables.
func Load() (*Config, error) {
	profile := strings.ToLower(getEnv(os.Getenv, "APP_PROFILE", string(ProfileDefault)))

	cfg := defaults()
	if err := applyEnv(cfg, dotenv(".env."+profile, ".env")); err != nil {
		return nil, err
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := cfg.ApplyYAML(data); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg, os.Getenv); err != nil {
		return nil, err
	}

	cfg.resolveStore()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// build assembles a Config from defaults and the given environment lookup.
func build(env func(string) string) (*Config, error) {
	cfg := defaults()
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		App: AppConfig{
			Name:                  "student-management",
			Profile:               ProfileDefault,
			Host:                  "0.0.0.0",
			Port:                  "8080",
			Version:               "dev",
			RequestTimeoutSeconds: 30,
		},
		Postgres: PostgresConfig{
			MaxConns:       10,
			MinConns:       2,
			RunMigrations:  true,
			ConnMaxIdleSec: 30,
			ConnMaxLifeSec: 300,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
			KeyPrefix:  "department:",
		},
		Logger: LoggerConfig{
			Level: "info",
		},
	}
}

// applyEnv overwrites every field whose variable is set in env. Unset variables keep
// the value already in cfg.
func applyEnv(cfg *Config, env func(string) string) error {
	if v := env("REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB: %w", err)
		}
		cfg.Redis.DB = db
	}

	cfg.App.Name = getEnv(env, "APP_NAME", cfg.App.Name)
	cfg.App.Profile = Profile(strings.ToLower(getEnv(env, "APP_PROFILE", string(cfg.App.Profile))))
	cfg.App.Host = getEnv(env, "APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnv(env, "APP_PORT", cfg.App.Port)
	cfg.App.Version = getEnv(env, "APP_VERSION", cfg.App.Version)
	cfg.App.RequestTimeoutSeconds = getEnvAsInt(env, "HTTP_REQUEST_TIMEOUT_SECONDS", cfg.App.RequestTimeoutSeconds)

	cfg.Store.Kind = StoreKind(strings.ToLower(getEnv(env, "STORE_KIND", string(cfg.Store.Kind))))

	cfg.Postgres.DSN = getEnv(env, "POSTGRES_DSN", cfg.Postgres.DSN)
	cfg.Postgres.MaxConns = int32(getEnvAsInt(env, "POSTGRES_MAX_CONNS", int(cfg.Postgres.MaxConns)))
	cfg.Postgres.MinConns = int32(getEnvAsInt(env, "POSTGRES_MIN_CONNS", int(cfg.Postgres.MinConns)))
	cfg.Postgres.RunMigrations = getEnvAsBool(env, "POSTGRES_RUN_MIGRATIONS", cfg.Postgres.RunMigrations)
	cfg.Postgres.ConnMaxIdleSec = int32(getEnvAsInt(env, "POSTGRES_CONN_MAX_IDLE_SECONDS", int(cfg.Postgres.ConnMaxIdleSec)))
	cfg.Postgres.ConnMaxLifeSec = int32(getEnvAsInt(env, "POSTGRES_CONN_MAX_LIFE_SECONDS", int(cfg.Postgres.ConnMaxLifeSec)))

	cfg.Redis.Addr = getEnv(env, "REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv(env, "REDIS_PASSWORD", cfg.Redis.Password)

	cfg.Cache.Enabled = getEnvAsBool(env, "CACHE_ENABLED", cfg.Cache.Enabled)
	cfg.Cache.TTLSeconds = getEnvAsInt(env, "CACHE_TTL_SECONDS", cfg.Cache.TTLSeconds)
	cfg.Cache.KeyPrefix = getEnv(env, "CACHE_KEY_PREFIX", cfg.Cache.KeyPrefix)

	cfg.Logger.Level = getEnv(env, "LOG_LEVEL", cfg.Logger.Level)
	return nil
}

// dotenv reads the named files without touching the process environment. Earlier
// files win; missing files are skipped.
func dotenv(files ...string) func(string) string {
	vars := make(map[string]string)
	for i := len(files) - 1; i >= 0; i-- {
		read, err := godotenv.Read(files[i])
		if err != nil {
			continue
		}
		for k, v := range read {
			vars[k] = v
		}
	}
	return func(key string) string { return vars[key] }
}

// ApplyYAML overlays the YAML document onto cfg. Keys absent from the document keep
// their current values.
func (c *Config) ApplyYAML(data []byte) error {
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	c.App.Profile = Profile(strings.ToLower(string(c.App.Profile)))
	c.Store.Kind = StoreKind(strings.ToLower(string(c.Store.Kind)))
	return nil
}

// resolveStore picks the store kind from the profile when none was set explicitly.
func (c *Config) resolveStore() {
	if c.Store.Kind != "" {
		return
	}
	if c.App.Profile == ProfileTest {
		c.Store.Kind = StoreMemory
		return
	}
	c.Store.Kind = StorePostgres
}

// Validate reports configuration combinations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Store.Kind {
	case StoreMemory:
	case StorePostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres store")
		}
	default:
		return fmt.Errorf("unknown store kind %q", c.Store.Kind)
	}
	if c.Cache.Enabled && c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is required when the cache is enabled")
	}
	return nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	if c.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TTLSeconds) * time.Second
}

func getEnv(env func(string) string, key, fallback string) string {
	if val := env(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(env func(string) string, key string, fallback int) int {
	val := env(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(env func(string) string, key string, fallback bool) bool {
	val := env(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
