// Package repomanager vends repository implementations bound to a database
// handle (either *sql.DB or an open transaction) and owns schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/davidmr/portfoliocms/internal/dbx"
	"github.com/davidmr/portfoliocms/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	RunMigrations(ctx context.Context, db *sql.DB) error
}
