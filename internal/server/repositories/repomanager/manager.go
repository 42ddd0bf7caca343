package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bizdir/internal/dbx"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/businesses"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/photos"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Businesses(db dbx.DBTX) businesses.Repository
	Reviews(db dbx.DBTX) reviews.Repository
	Photos(db dbx.DBTX) photos.Repository
}
