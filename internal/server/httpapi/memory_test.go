package httpapi

import (
	"context"
	"database/sql"
	"sync"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/dbx"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/businesses"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/photos"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/users"
)

// memStore backs the real services in end-to-end tests. Only users and
// businesses hold data; reviews and photos are always empty.
type memStore struct {
	mu         sync.Mutex
	users      []*models.User
	businesses map[int64]*models.Business
	nextID     int64
	writes     int
}

func newMemStore() *memStore {
	return &memStore{businesses: map[int64]*models.Business{}, nextID: 1}
}

func (m *memStore) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memStore) Users(dbx.DBTX) users.Repository            { return memUsers{m} }
func (m *memStore) Businesses(dbx.DBTX) businesses.Repository  { return memBusinesses{m} }
func (m *memStore) Reviews(dbx.DBTX) reviews.Repository        { return emptyReviews{} }
func (m *memStore) Photos(dbx.DBTX) photos.Repository          { return emptyPhotos{} }

func (m *memStore) writeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, existing := range r.m.users {
		if existing.Email == u.Email {
			return nil, common.NewValidationError("email must be unique")
		}
	}
	u.ID = int64(len(r.m.users) + 1)
	r.m.users = append(r.m.users, u)
	r.m.writes++
	return u, nil
}

func (r memUsers) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if id < 1 || id > int64(len(r.m.users)) {
		return nil, common.ErrorNotFound
	}
	return r.m.users[id-1], nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, u := range r.m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

type memBusinesses struct{ m *memStore }

func (r memBusinesses) Create(_ context.Context, b *models.Business) (*models.Business, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b.ID = r.m.nextID
	r.m.nextID++
	r.m.businesses[b.ID] = b
	r.m.writes++
	return b, nil
}

func (r memBusinesses) FindByID(_ context.Context, id int64) (*models.Business, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.businesses[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

func (r memBusinesses) FindAll(_ context.Context, f models.Filter) ([]*models.Business, int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	all := make([]*models.Business, 0)
	for id := int64(1); id < r.m.nextID; id++ {
		if b, ok := r.m.businesses[id]; ok && (f.OwnerID == 0 || b.OwnerID == f.OwnerID) {
			all = append(all, b)
		}
	}
	total := int64(len(all))
	if f.Limit > 0 {
		if f.Offset >= len(all) {
			return []*models.Business{}, total, nil
		}
		end := min(f.Offset+f.Limit, len(all))
		all = all[f.Offset:end]
	}
	return all, total, nil
}

func (r memBusinesses) Update(_ context.Context, id int64, ch models.Changes) (int64, error) {
	if ch.Empty() {
		return 0, common.NewValidationError("no updatable fields provided")
	}
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	b, ok := r.m.businesses[id]
	if !ok {
		return 0, nil
	}
	for _, c := range ch {
		if c.Column == "name" {
			b.Name = c.Value.(string)
		}
	}
	r.m.writes++
	return 1, nil
}

func (r memBusinesses) Delete(_ context.Context, id int64) (int64, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.businesses[id]; !ok {
		return 0, nil
	}
	delete(r.m.businesses, id)
	r.m.writes++
	return 1, nil
}

type emptyReviews struct{}

func (emptyReviews) Create(context.Context, *models.Review) (*models.Review, error) {
	return nil, common.ErrorInternal
}
func (emptyReviews) FindByID(context.Context, int64) (*models.Review, error) {
	return nil, common.ErrorNotFound
}
func (emptyReviews) FindAll(context.Context, models.Filter) ([]*models.Review, int64, error) {
	return []*models.Review{}, 0, nil
}
func (emptyReviews) Update(context.Context, int64, models.Changes) (int64, error) { return 0, nil }
func (emptyReviews) Delete(context.Context, int64) (int64, error)                 { return 0, nil }

type emptyPhotos struct{}

func (emptyPhotos) Create(context.Context, *models.Photo) (*models.Photo, error) {
	return nil, common.ErrorInternal
}
func (emptyPhotos) FindByID(context.Context, int64) (*models.Photo, error) {
	return nil, common.ErrorNotFound
}
func (emptyPhotos) FindAll(context.Context, models.Filter) ([]*models.Photo, int64, error) {
	return []*models.Photo{}, 0, nil
}
func (emptyPhotos) Update(context.Context, int64, models.Changes) (int64, error) { return 0, nil }
func (emptyPhotos) Delete(context.Context, int64) (int64, error)                 { return 0, nil }
