package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Store backends.
const (
	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	LogFormatJSON bool   `toml:"log_format_json"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// document store
	StoreBackend   string `toml:"store_backend"`
	SQLitePath     string `toml:"sqlite_path"`
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`
	PostgresUser   string `toml:"postgres_user"`
	MigrationsPath string `toml:"migrations_path"`

	// redis: change notifications across instances and rate limiting
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// exercise catalog
	CatalogPath    string `toml:"catalog_path"`
	CatalogCacheMB int    `toml:"catalog_cache_mb"`

	RateLimitAllowedPerMin int      `toml:"rate_limit_allowed_per_min"`
	AllowedOrigins         []string `toml:"allowed_origins"`

	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	// IANA zone used to find the Monday a week starts on
	WeekStartsLocation string `toml:"week_starts_location"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	var cfg *Config
	switch strings.ToLower(env) {
	case "dev", "development":
		cfg = t.Development
	case "prod", "production":
		cfg = t.Production
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config section for env: %s", env)
	}
	return cfg, nil
}

// Load reads the TOML file at path and returns the section for env with
// defaults filled in.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}
	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults(env)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults(env string) {
	if c.Environment == "" {
		c.Environment = strings.ToLower(env)
	}
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.StoreBackend == "" {
		c.StoreBackend = StoreMemory
	}
	if c.CatalogCacheMB <= 0 {
		c.CatalogCacheMB = 8
	}
	if c.MigrationsPath == "" {
		c.MigrationsPath = "./migrations"
	}
	if c.WeekStartsLocation == "" {
		c.WeekStartsLocation = "Local"
	}
}

func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port: %d", c.Port))
	}
	switch c.StoreBackend {
	case StoreMemory:
	case StoreSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("sqlite_path is required for the sqlite store"))
		}
	case StorePostgres:
		if c.PostgresHost == "" || c.PostgresPort == "" || c.PostgresDBName == "" {
			errs = append(errs, errors.New("postgres_host, postgres_port and postgres_db_name are required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store_backend: %q", c.StoreBackend))
	}
	if _, err := time.LoadLocation(c.WeekStartsLocation); err != nil {
		errs = append(errs, fmt.Errorf("week_starts_location: %w", err))
	}
	return errors.Join(errs...)
}

// WeekLocation is the zone weeks are computed in.
func (c *Config) WeekLocation() *time.Location {
	loc, err := time.LoadLocation(c.WeekStartsLocation)
	if err != nil {
		return time.Local
	}
	return loc
}

func (c *Config) RedisEnabled() bool {
	return c.RedisHost != "" && c.RedisPort != ""
}
