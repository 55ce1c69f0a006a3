package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/studiosite/internal/dbx"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/admins"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/content"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/messages"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Admins(db dbx.DBTX) admins.Repository
	Content(db dbx.DBTX) content.Repository
	Messages(db dbx.DBTX) messages.Repository
}
