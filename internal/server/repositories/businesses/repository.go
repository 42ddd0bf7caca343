package businesses

import (
	"context"

	"github.com/dmitrijs2005/bizdir/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, b *models.Business) (*models.Business, error)
	FindByID(ctx context.Context, id int64) (*models.Business, error)
	// FindAll returns one page of matches and the total match count.
	FindAll(ctx context.Context, f models.Filter) ([]*models.Business, int64, error)
	Update(ctx context.Context, id int64, changes models.Changes) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
