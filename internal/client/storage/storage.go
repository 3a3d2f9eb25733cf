// Package storage opens the key/value store selected by the client config.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/discera/discera-client/internal/client/config"
	"github.com/discera/discera-client/internal/client/migrations"
	"github.com/discera/discera-client/internal/client/repositories/metadata"
	"github.com/discera/discera-client/internal/filex"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"

	_ "modernc.org/sqlite"
)

// Store is an opened backend. Close releases its connection, if any.
type Store struct {
	Metadata metadata.Repository
	closer   func() error
}

func (s *Store) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// Open builds the backend named by cfg.StoreBackend.
func Open(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.StoreBackend {
	case config.StoreSQLite, "":
		return openSQLite(ctx, cfg.ResolvedStorePath())
	case config.StoreFile:
		return openFile(cfg.ResolvedStorePath(), cfg.StoreKey)
	case config.StoreRedis:
		return openRedis(ctx, cfg.RedisAddr, cfg.RedisKey)
	case config.StoreMemory:
		return &Store{Metadata: metadata.NewMemoryRepository()}, nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

func openSQLite(ctx context.Context, dsn string) (*Store, error) {
	inMemory := dsn == ":memory:"
	if !inMemory {
		if err := filex.EnsureDir(filepath.Dir(dsn)); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if inMemory {
		// each connection would see its own empty database
		db.SetMaxOpenConns(1)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{Metadata: metadata.NewSQLiteRepository(db), closer: db.Close}, nil
}

func openFile(path, passphrase string) (*Store, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("file store requires store_key")
	}
	repo, err := metadata.OpenFileRepository(path, []byte(passphrase))
	if err != nil {
		return nil, err
	}
	return &Store{Metadata: repo}, nil
}

func openRedis(ctx context.Context, addr, key string) (*Store, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &Store{Metadata: metadata.NewRedisRepository(rdb, key), closer: rdb.Close}, nil
}
