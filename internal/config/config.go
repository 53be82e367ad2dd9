package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	BackendSQL   = "sql"
	BackendBlobs = "blobs"
	BackendFile  = "file"
)

type Config struct {
	Environment string        `yaml:"environment"`
	Server      ServerConfig  `yaml:"server"`
	Storage     StorageConfig `yaml:"storage"`
	Logging     LoggingConfig `yaml:"logging"`
	Auth        AuthConfig    `yaml:"auth"`
}

type ServerConfig struct {
	HTTPAddr        string        `yaml:"http_addr"`
	GRPCAddr        string        `yaml:"grpc_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	// Backend forces a storage strategy. Empty picks one from what is configured.
	Backend   string         `yaml:"backend"`
	Namespace string         `yaml:"namespace"`
	Database  DatabaseConfig `yaml:"database"`
	Redis     RedisConfig    `yaml:"redis"`
	File      FileConfig     `yaml:"file"`
}

type DatabaseConfig struct {
	// Driver is mysql, postgres or sqlite. Empty infers it from DSN.
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type FileConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type AuthConfig struct {
	// Secret enables bearer-token checks on mutating requests when set.
	Secret   string        `yaml:"secret"`
	Issuer   string        `yaml:"issuer"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// Default runs as production; the local file backend needs an explicit
// development environment.
func Default() Config {
	return Config{
		Environment: EnvProduction,
		Server: ServerConfig{
			HTTPAddr:        ":8080",
			GRPCAddr:        ":50051",
			ShutdownTimeout: 5 * time.Second,
		},
		Storage: StorageConfig{
			Namespace: "miso_store",
			Database: DatabaseConfig{
				MaxOpenConns:    50,
				MaxIdleConns:    25,
				ConnMaxLifetime: 5 * time.Minute,
			},
			Redis: RedisConfig{PoolSize: 100},
			File:  FileConfig{Path: "data/store.json"},
		},
		Logging: LoggingConfig{Level: "info", Format: "text"},
		Auth: AuthConfig{
			Issuer:   "fishstock",
			TokenTTL: 24 * time.Hour,
		},
	}
}

// Load reads the YAML file at path (skipped when path is empty), then applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from environment variables looked up with lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("APP_ENV", &c.Environment)
	str("HTTP_ADDR", &c.Server.HTTPAddr)
	str("GRPC_ADDR", &c.Server.GRPCAddr)
	str("STORE_BACKEND", &c.Storage.Backend)
	str("STORE_NAMESPACE", &c.Storage.Namespace)
	str("DATABASE_URL", &c.Storage.Database.DSN)
	str("NEON_DATABASE_URL", &c.Storage.Database.DSN)
	str("DATABASE_DRIVER", &c.Storage.Database.Driver)
	str("REDIS_ADDR", &c.Storage.Redis.Addr)
	str("REDIS_PASSWORD", &c.Storage.Redis.Password)
	str("STORE_FILE", &c.Storage.File.Path)
	str("LOG_LEVEL", &c.Logging.Level)
	str("LOG_FORMAT", &c.Logging.Format)
	str("AUTH_SECRET", &c.Auth.Secret)

	if v, ok := lookup("REDIS_DB"); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("REDIS_DB: %w", err)
		}
		c.Storage.Redis.DB = db
	}
	return nil
}

func (c *Config) Validate() error {
	switch c.Environment {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("unknown environment %q", c.Environment)
	}

	switch c.Storage.Backend {
	case "", BackendSQL, BackendBlobs, BackendFile:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}

	switch c.Storage.Database.Driver {
	case "", "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("unknown database driver %q", c.Storage.Database.Driver)
	}

	if c.Storage.Namespace == "" {
		return errors.New("storage namespace must not be empty")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}
