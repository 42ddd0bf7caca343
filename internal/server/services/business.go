package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/logging"
	"github.com/dmitrijs2005/bizdir/internal/server/auth"
	"github.com/dmitrijs2005/bizdir/internal/server/authz"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
	"github.com/dmitrijs2005/bizdir/internal/server/pagination"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bizdir/internal/server/storage"
	"github.com/dmitrijs2005/bizdir/internal/server/validation"
)

// BusinessesPath is the collection path used in page links.
const BusinessesPath = "/businesses"

type BusinessPage struct {
	Businesses []*models.Business `json:"businesses"`
	pagination.Page
}

type BusinessService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	validate    *validation.Validator
	logger      logging.Logger
	policy      authz.Policy[*models.Business]
}

func NewBusinessService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, v *validation.Validator, logger logging.Logger) *BusinessService {
	s := &BusinessService{
		db:          db,
		repomanager: m,
		store:       store,
		validate:    v,
		logger:      logger.With("module", "businesses"),
	}
	s.policy = authz.Policy[*models.Business]{
		Kind:  "business",
		Owner: (*models.Business).Owner,
		Load: func(ctx context.Context, id int64) (*models.Business, error) {
			return s.repomanager.Businesses(s.db).FindByID(ctx, id)
		},
	}
	return s
}

// List returns one page of all businesses. Pages past the end are empty.
func (s *BusinessService) List(ctx context.Context, page int) (*BusinessPage, error) {
	bounds := pagination.Paginate(page, 0, pagination.PageSize, BusinessesPath)

	list, total, err := s.repomanager.Businesses(s.db).FindAll(ctx, models.Filter{Limit: bounds.PageSize, Offset: bounds.Offset()})
	if err != nil {
		return nil, err
	}
	return &BusinessPage{
		Businesses: list,
		Page:       pagination.Paginate(page, total, pagination.PageSize, BusinessesPath),
	}, nil
}

// Create stores a new business for the declared owner. Non-administrators
// may only create businesses they own.
func (s *BusinessService) Create(ctx context.Context, caller *auth.Identity, in *models.NewBusiness) (*models.Business, error) {
	if err := s.policy.AuthorizeCreate(caller, in.OwnerID); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}
	b, err := s.repomanager.Businesses(s.db).Create(ctx, in.Record())
	if err != nil {
		return nil, fmt.Errorf("error creating business: %w", err)
	}
	return b, nil
}

// Get returns a business with its photos and reviews. Reads are public.
func (s *BusinessService) Get(ctx context.Context, id int64) (*models.BusinessDetail, error) {
	b, err := s.repomanager.Businesses(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	photos, _, err := s.repomanager.Photos(s.db).FindAll(ctx, models.Filter{BusinessID: id})
	if err != nil {
		return nil, err
	}
	reviews, _, err := s.repomanager.Reviews(s.db).FindAll(ctx, models.Filter{BusinessID: id})
	if err != nil {
		return nil, err
	}

	return &models.BusinessDetail{Business: b, Photos: photos, Reviews: reviews}, nil
}

func (s *BusinessService) Update(ctx context.Context, caller *auth.Identity, id int64, patch *models.BusinessPatch) error {
	if _, err := s.policy.Authorize(ctx, caller, id, authz.ActionUpdate); err != nil {
		return err
	}
	if err := s.validate.Struct(patch); err != nil {
		return err
	}
	n, err := s.repomanager.Businesses(s.db).Update(ctx, id, patch.Changes())
	return affected(n, err)
}

// Delete removes a business; its reviews and photo records go with it.
// The stored photo objects are deleted afterwards. Failures there are
// logged and do not fail the request.
func (s *BusinessService) Delete(ctx context.Context, caller *auth.Identity, id int64) error {
	if _, err := s.policy.Authorize(ctx, caller, id, authz.ActionDelete); err != nil {
		return err
	}

	// The cascade drops the photo rows, so the keys are read first.
	photos, _, err := s.repomanager.Photos(s.db).FindAll(ctx, models.Filter{BusinessID: id})
	if err != nil {
		return err
	}

	n, err := s.repomanager.Businesses(s.db).Delete(ctx, id)
	if err := affected(n, err); err != nil {
		return err
	}

	for _, p := range photos {
		if err := s.store.Delete(ctx, p.StorageKey); err != nil {
			s.logger.Warn(ctx, "photo object left behind", "business_id", id, "photo_id", p.ID, "key", p.StorageKey, "error", err)
		}
	}
	return nil
}

// ListByOwner returns every business of ownerID for that owner or an
// administrator.
func (s *BusinessService) ListByOwner(ctx context.Context, caller *auth.Identity, ownerID int64) ([]*models.Business, error) {
	if err := authz.AuthorizeAccount(caller, ownerID, "businesses"); err != nil {
		return nil, err
	}
	list, _, err := s.repomanager.Businesses(s.db).FindAll(ctx, models.Filter{OwnerID: ownerID})
	return list, err
}

// affected maps "no rows touched" to not found. The record can disappear
// between the authorization load and the mutation.
func affected(n int64, err error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
