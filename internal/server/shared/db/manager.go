// Package db selects the user store backing the auth server.
package db

import (
	"context"
	"database/sql"

	"github.com/discera/discera-client/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Close() error
}

// NewRepositoryManager returns the PostgreSQL manager for a non-empty dsn and
// the in-memory one otherwise.
func NewRepositoryManager(dsn string) (RepositoryManager, error) {
	if dsn == "" {
		return NewInMemoryRepositoryManager(), nil
	}
	return NewPostgresRepositoryManager(dsn)
}
