package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/rl1809/fishstock/internal/config"
	"github.com/rl1809/fishstock/internal/port"
)

// Backend kinds as reported by the health endpoint.
const (
	KindRelational = "neon"
	KindBlobs      = "blobs"
	KindFile       = "file"
)

var ErrBackendUnavailable = errors.New("storage backend unavailable")

type Backend struct {
	Kind         string
	Driver       string
	Inventory    port.InventoryRepository
	Transactions port.TransactionRepository

	health port.HealthChecker
	close  func() error
}

func (b *Backend) Ping(ctx context.Context) error {
	return b.health.Ping(ctx)
}

func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Repository exposes both collections through one value.
func (b *Backend) Repository() port.SyncBoundary {
	return struct {
		port.InventoryRepository
		port.TransactionRepository
	}{b.Inventory, b.Transactions}
}

// SelectKind decides which backend a configuration points at. The local file
// is never chosen in production.
func SelectKind(cfg *config.Config) (string, error) {
	st := cfg.Storage

	switch st.Backend {
	case config.BackendSQL:
		if st.Database.DSN == "" {
			return "", fmt.Errorf("%w: sql backend requested without a database dsn", ErrBackendUnavailable)
		}
		return KindRelational, nil
	case config.BackendBlobs:
		if st.Redis.Addr == "" {
			return "", fmt.Errorf("%w: blobs backend requested without a redis address", ErrBackendUnavailable)
		}
		return KindBlobs, nil
	case config.BackendFile:
		if cfg.IsProduction() {
			return "", fmt.Errorf("%w: local file backend is not allowed in production", ErrBackendUnavailable)
		}
		return KindFile, nil
	}

	switch {
	case st.Database.DSN != "":
		return KindRelational, nil
	case st.Redis.Addr != "":
		return KindBlobs, nil
	case !cfg.IsProduction():
		return KindFile, nil
	}
	return "", fmt.Errorf("%w: configure a database dsn or a redis address", ErrBackendUnavailable)
}

// DetectDriver infers the database/sql driver from a connection string.
func DetectDriver(dsn string) Dialect {
	lower := strings.ToLower(dsn)
	switch {
	case strings.HasPrefix(lower, "postgres://"), strings.HasPrefix(lower, "postgresql://"):
		return DialectPostgres
	case strings.HasPrefix(lower, "file:"), lower == ":memory:",
		strings.HasSuffix(lower, ".db"), strings.HasSuffix(lower, ".sqlite"):
		return DialectSQLite
	}
	return DialectMySQL
}

// Open connects the configured backend and checks it is reachable.
func Open(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) (*Backend, error) {
	kind, err := SelectKind(cfg)
	if err != nil {
		return nil, err
	}

	ids := NewIDGenerator()
	st := cfg.Storage

	switch kind {
	case KindRelational:
		dialect := Dialect(st.Database.Driver)
		if dialect == "" {
			dialect = DetectDriver(st.Database.DSN)
		}

		db, err := sql.Open(string(dialect), st.Database.DSN)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", dialect, err)
		}
		db.SetMaxOpenConns(st.Database.MaxOpenConns)
		db.SetMaxIdleConns(st.Database.MaxIdleConns)
		db.SetConnMaxLifetime(st.Database.ConnMaxLifetime)
		if dialect == DialectSQLite {
			// one connection, or every :memory: connection would see its own database
			db.SetMaxOpenConns(1)
			db.SetConnMaxLifetime(0)
		}

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: ping %s: %v", ErrBackendUnavailable, dialect, err)
		}

		adapter := NewSQLAdapter(db, dialect, ids)
		if err := adapter.Migrate(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.WithField("driver", dialect).Info("connected to relational backend")

		return &Backend{
			Kind:         KindRelational,
			Driver:       string(dialect),
			Inventory:    adapter,
			Transactions: adapter,
			health:       adapter,
			close:        adapter.Close,
		}, nil

	case KindBlobs:
		rdb := redis.NewClient(&redis.Options{
			Addr:     st.Redis.Addr,
			Password: st.Redis.Password,
			DB:       st.Redis.DB,
			PoolSize: st.Redis.PoolSize,
		})
		adapter := NewRedisAdapter(rdb, st.Namespace)
		if err := adapter.Ping(ctx); err != nil {
			rdb.Close()
			return nil, fmt.Errorf("%w: ping redis: %v", ErrBackendUnavailable, err)
		}
		logger.WithField("addr", st.Redis.Addr).Info("connected to blob backend")

		docs := NewDocumentAdapter(adapter, ids)
		return &Backend{
			Kind:         KindBlobs,
			Driver:       "redis",
			Inventory:    docs,
			Transactions: docs,
			health:       adapter,
			close:        adapter.Close,
		}, nil
	}

	adapter := NewFileAdapter(st.File.Path, st.Namespace, logger)
	if err := adapter.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	logger.WithField("path", st.File.Path).Warn("using local file backend, development only")

	docs := NewDocumentAdapter(adapter, ids)
	return &Backend{
		Kind:         KindFile,
		Driver:       "file",
		Inventory:    docs,
		Transactions: docs,
		health:       adapter,
	}, nil
}
