package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/parking/internal/dbx"
	"github.com/dmitrijs2005/parking/internal/server/repositories/administrators"
	"github.com/dmitrijs2005/parking/internal/server/repositories/guards"
	"github.com/dmitrijs2005/parking/internal/server/repositories/spaces"
	"github.com/dmitrijs2005/parking/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can run
// the same repository against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Administrators(db dbx.DBTX) administrators.Repository
	Guards(db dbx.DBTX) guards.Repository
	Users(db dbx.DBTX) users.Repository
	Spaces(db dbx.DBTX) spaces.Repository
}
