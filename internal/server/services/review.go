package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/bizdir/internal/server/auth"
	"github.com/dmitrijs2005/bizdir/internal/server/authz"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bizdir/internal/server/validation"
)

type ReviewService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	validate    *validation.Validator
	policy      authz.Policy[*models.Review]
}

func NewReviewService(db *sql.DB, m repomanager.RepositoryManager, v *validation.Validator) *ReviewService {
	s := &ReviewService{db: db, repomanager: m, validate: v}
	s.policy = authz.Policy[*models.Review]{
		Kind:  "review",
		Owner: (*models.Review).Owner,
		Load: func(ctx context.Context, id int64) (*models.Review, error) {
			return s.repomanager.Reviews(s.db).FindByID(ctx, id)
		},
	}
	return s
}

// Create stores a review written by the declared author.
func (s *ReviewService) Create(ctx context.Context, caller *auth.Identity, in *models.NewReview) (*models.Review, error) {
	if err := s.policy.AuthorizeCreate(caller, in.UserID); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	r, err := s.repomanager.Reviews(s.db).Create(ctx, in.Record())
	if err != nil {
		return nil, fmt.Errorf("error creating review: %w", err)
	}
	return r, nil
}

func (s *ReviewService) Get(ctx context.Context, id int64) (*models.Review, error) {
	return s.repomanager.Reviews(s.db).FindByID(ctx, id)
}

func (s *ReviewService) Update(ctx context.Context, caller *auth.Identity, id int64, patch *models.ReviewPatch) error {
	if _, err := s.policy.Authorize(ctx, caller, id, authz.ActionUpdate); err != nil {
		return err
	}
	if err := s.validate.Struct(patch); err != nil {
		return err
	}
	n, err := s.repomanager.Reviews(s.db).Update(ctx, id, patch.Changes())
	return affected(n, err)
}

func (s *ReviewService) Delete(ctx context.Context, caller *auth.Identity, id int64) error {
	if _, err := s.policy.Authorize(ctx, caller, id, authz.ActionDelete); err != nil {
		return err
	}
	n, err := s.repomanager.Reviews(s.db).Delete(ctx, id)
	return affected(n, err)
}

func (s *ReviewService) ListByUser(ctx context.Context, caller *auth.Identity, userID int64) ([]*models.Review, error) {
	if err := authz.AuthorizeAccount(caller, userID, "reviews"); err != nil {
		return nil, err
	}
	list, _, err := s.repomanager.Reviews(s.db).FindAll(ctx, models.Filter{OwnerID: userID})
	return list, err
}
