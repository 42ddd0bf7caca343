package reviews

import (
	"context"

	"github.com/dmitrijs2005/bizdir/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, r *models.Review) (*models.Review, error)
	FindByID(ctx context.Context, id int64) (*models.Review, error)
	FindAll(ctx context.Context, f models.Filter) ([]*models.Review, int64, error)
	Update(ctx context.Context, id int64, changes models.Changes) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
