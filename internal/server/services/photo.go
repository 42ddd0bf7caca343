package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/bizdir/internal/dbx"
	"github.com/dmitrijs2005/bizdir/internal/logging"
	"github.com/dmitrijs2005/bizdir/internal/server/auth"
	"github.com/dmitrijs2005/bizdir/internal/server/authz"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bizdir/internal/server/storage"
	"github.com/dmitrijs2005/bizdir/internal/server/validation"
)

// PhotoService manages photo records. Image bytes never pass through it:
// creating a photo returns a presigned upload URL and reading one returns
// a presigned download URL.
type PhotoService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       storage.ObjectStore
	validate    *validation.Validator
	logger      logging.Logger
	now         func() time.Time
	policy      authz.Policy[*models.Photo]
}

func NewPhotoService(db *sql.DB, m repomanager.RepositoryManager, store storage.ObjectStore, v *validation.Validator, logger logging.Logger) *PhotoService {
	s := &PhotoService{
		db:          db,
		repomanager: m,
		store:       store,
		validate:    v,
		logger:      logger.With("module", "photos"),
		now:         time.Now,
	}
	s.policy = authz.Policy[*models.Photo]{
		Kind:  "photo",
		Owner: (*models.Photo).Owner,
		Load: func(ctx context.Context, id int64) (*models.Photo, error) {
			return s.repomanager.Photos(s.db).FindByID(ctx, id)
		},
	}
	return s
}

// Create stores the photo record and presigns its upload inside one
// transaction, so a signing failure leaves no orphan record.
func (s *PhotoService) Create(ctx context.Context, caller *auth.Identity, in *models.NewPhoto) (*models.PhotoUpload, error) {
	if err := s.policy.AuthorizeCreate(caller, in.UserID); err != nil {
		return nil, err
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	photo := in.Record(storage.NewKey(in.BusinessID, s.now()))
	var upload *models.PhotoUpload

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := s.repomanager.Photos(tx).Create(ctx, photo)
		if err != nil {
			return err
		}
		url, err := s.store.PresignPut(ctx, p.StorageKey, p.ContentType)
		if err != nil {
			return err
		}
		upload = &models.PhotoUpload{ID: p.ID, UploadURL: url}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error creating photo: %w", err)
	}
	return upload, nil
}

// Get returns photo metadata with a temporary download URL.
func (s *PhotoService) Get(ctx context.Context, id int64) (*models.PhotoView, error) {
	p, err := s.repomanager.Photos(s.db).FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.store.PresignGet(ctx, p.StorageKey)
	if err != nil {
		return nil, err
	}
	return &models.PhotoView{Photo: p, URL: url}, nil
}

func (s *PhotoService) Update(ctx context.Context, caller *auth.Identity, id int64, patch *models.PhotoPatch) error {
	if _, err := s.policy.Authorize(ctx, caller, id, authz.ActionUpdate); err != nil {
		return err
	}
	if err := s.validate.Struct(patch); err != nil {
		return err
	}
	n, err := s.repomanager.Photos(s.db).Update(ctx, id, patch.Changes())
	return affected(n, err)
}

// Delete removes the record, then the stored object. A failed object
// delete is logged and does not fail the request.
func (s *PhotoService) Delete(ctx context.Context, caller *auth.Identity, id int64) error {
	p, err := s.policy.Authorize(ctx, caller, id, authz.ActionDelete)
	if err != nil {
		return err
	}
	n, err := s.repomanager.Photos(s.db).Delete(ctx, id)
	if err := affected(n, err); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, p.StorageKey); err != nil {
		s.logger.Warn(ctx, "photo object left behind", "photo_id", id, "key", p.StorageKey, "error", err)
	}
	return nil
}

func (s *PhotoService) ListByUser(ctx context.Context, caller *auth.Identity, userID int64) ([]*models.Photo, error) {
	if err := authz.AuthorizeAccount(caller, userID, "photos"); err != nil {
		return nil, err
	}
	list, _, err := s.repomanager.Photos(s.db).FindAll(ctx, models.Filter{OwnerID: userID})
	return list, err
}
