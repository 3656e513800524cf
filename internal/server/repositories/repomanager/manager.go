package repomanager

import (
	"context"
	"database/sql"

	"github.com/patronly/patronly/internal/dbx"
	"github.com/patronly/patronly/internal/server/repositories/contents"
	"github.com/patronly/patronly/internal/server/repositories/ledger"
	"github.com/patronly/patronly/internal/server/repositories/subscriptions"
	"github.com/patronly/patronly/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Contents(db dbx.DBTX) contents.Repository
	Ledger(db dbx.DBTX) ledger.Repository
	Subscriptions(db dbx.DBTX) subscriptions.Repository
}
