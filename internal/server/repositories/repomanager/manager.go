package repomanager

import (
	"context"
	"database/sql"

	"github.com/dkrasnova/fintrack/internal/dbx"
	"github.com/dkrasnova/fintrack/internal/server/repositories/mappings"
	"github.com/dkrasnova/fintrack/internal/server/repositories/records"
	"github.com/dkrasnova/fintrack/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a DBTX, so
// services can run the same repository code on *sql.DB or inside *sql.Tx.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Mappings(db dbx.DBTX) mappings.Repository
	Records(db dbx.DBTX) records.Repository
}
