// Package db wires repositories to their backing storage and owns the
// connection lifecycle.
package db

import (
	"context"
	"database/sql"

	"github.com/sbuga/passvault/internal/server/accounts"
	"github.com/sbuga/passvault/internal/server/credentials"
)

// RepositoryManager hands out the repositories and owns the pool they run
// on. No module-level singleton: the app constructs one and passes it down.
type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Accounts() accounts.Repository
	Credentials() credentials.Repository
	Close() error
}
