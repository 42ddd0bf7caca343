package photos

import (
	"context"

	"github.com/dmitrijs2005/bizdir/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, p *models.Photo) (*models.Photo, error)
	FindByID(ctx context.Context, id int64) (*models.Photo, error)
	FindAll(ctx context.Context, f models.Filter) ([]*models.Photo, int64, error)
	Update(ctx context.Context, id int64, changes models.Changes) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
