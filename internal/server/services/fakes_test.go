package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/dbx"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/businesses"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/photos"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/users"
)

// table is an in-memory store shared by the fake repositories. It counts
// mutations so tests can assert that a rejected request changed nothing.
type table[T any] struct {
	mu        sync.Mutex
	rows      map[int64]T
	nextID    int64
	mutations int
	createErr error
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: map[int64]T{}, nextID: 1}
}

func (t *table[T]) insert(setID func(int64), v T) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.createErr != nil {
		return t.createErr
	}
	id := t.nextID
	t.nextID++
	setID(id)
	t.rows[id] = v
	t.mutations++
	return nil
}

func (t *table[T]) get(id int64) (T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		var zero T
		return zero, common.ErrorNotFound
	}
	return v, nil
}

func (t *table[T]) list(match func(T) bool) []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]int64, 0, len(t.rows))
	for id := range t.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]T, 0)
	for _, id := range ids {
		if match(t.rows[id]) {
			out = append(out, t.rows[id])
		}
	}
	return out
}

func (t *table[T]) update(id int64, apply func(T)) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	v, ok := t.rows[id]
	if !ok {
		return 0
	}
	apply(v)
	t.mutations++
	return 1
}

func (t *table[T]) remove(id int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[id]; !ok {
		return 0
	}
	delete(t.rows, id)
	t.mutations++
	return 1
}

func page[T any](all []T, f models.Filter) ([]T, int64) {
	total := int64(len(all))
	if f.Limit <= 0 {
		return all, total
	}
	if f.Offset >= len(all) {
		return []T{}, total
	}
	end := f.Offset + f.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[f.Offset:end], total
}

type fakeUsers struct{ t *table[*models.User] }

func (r fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	for _, existing := range r.t.list(func(*models.User) bool { return true }) {
		if existing.Email == u.Email {
			return nil, common.NewValidationError("email must be unique")
		}
	}
	u.CreatedAt = time.Now()
	if err := r.t.insert(func(id int64) { u.ID = id }, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (r fakeUsers) FindByID(_ context.Context, id int64) (*models.User, error) { return r.t.get(id) }

func (r fakeUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.t.list(func(u *models.User) bool { return u.Email == email }) {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

type fakeBusinesses struct{ t *table[*models.Business] }

func (r fakeBusinesses) Create(_ context.Context, b *models.Business) (*models.Business, error) {
	if err := r.t.insert(func(id int64) { b.ID = id }, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (r fakeBusinesses) FindByID(_ context.Context, id int64) (*models.Business, error) {
	return r.t.get(id)
}

func (r fakeBusinesses) FindAll(_ context.Context, f models.Filter) ([]*models.Business, int64, error) {
	all := r.t.list(func(b *models.Business) bool { return f.OwnerID == 0 || b.OwnerID == f.OwnerID })
	list, total := page(all, f)
	return list, total, nil
}

func (r fakeBusinesses) Update(_ context.Context, id int64, ch models.Changes) (int64, error) {
	if ch.Empty() {
		return 0, common.NewValidationError("no updatable fields provided")
	}
	return r.t.update(id, func(b *models.Business) {
		for _, c := range ch {
			if c.Column == "name" {
				b.Name = c.Value.(string)
			}
		}
	}), nil
}

func (r fakeBusinesses) Delete(_ context.Context, id int64) (int64, error) { return r.t.remove(id), nil }

type fakeReviews struct{ t *table[*models.Review] }

func (r fakeReviews) Create(_ context.Context, rv *models.Review) (*models.Review, error) {
	if err := r.t.insert(func(id int64) { rv.ID = id }, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (r fakeReviews) FindByID(_ context.Context, id int64) (*models.Review, error) { return r.t.get(id) }

func (r fakeReviews) FindAll(_ context.Context, f models.Filter) ([]*models.Review, int64, error) {
	all := r.t.list(func(rv *models.Review) bool {
		return (f.OwnerID == 0 || rv.UserID == f.OwnerID) && (f.BusinessID == 0 || rv.BusinessID == f.BusinessID)
	})
	list, total := page(all, f)
	return list, total, nil
}

func (r fakeReviews) Update(_ context.Context, id int64, ch models.Changes) (int64, error) {
	if ch.Empty() {
		return 0, common.NewValidationError("no updatable fields provided")
	}
	return r.t.update(id, func(rv *models.Review) {
		for _, c := range ch {
			if c.Column == "stars" {
				rv.Stars = c.Value.(int)
			}
		}
	}), nil
}

func (r fakeReviews) Delete(_ context.Context, id int64) (int64, error) { return r.t.remove(id), nil }

type fakePhotos struct{ t *table[*models.Photo] }

func (r fakePhotos) Create(_ context.Context, p *models.Photo) (*models.Photo, error) {
	if err := r.t.insert(func(id int64) { p.ID = id }, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r fakePhotos) FindByID(_ context.Context, id int64) (*models.Photo, error) { return r.t.get(id) }

func (r fakePhotos) FindAll(_ context.Context, f models.Filter) ([]*models.Photo, int64, error) {
	all := r.t.list(func(p *models.Photo) bool {
		return (f.OwnerID == 0 || p.UserID == f.OwnerID) && (f.BusinessID == 0 || p.BusinessID == f.BusinessID)
	})
	list, total := page(all, f)
	return list, total, nil
}

func (r fakePhotos) Update(_ context.Context, id int64, ch models.Changes) (int64, error) {
	if ch.Empty() {
		return 0, common.NewValidationError("no updatable fields provided")
	}
	return r.t.update(id, func(p *models.Photo) {
		for _, c := range ch {
			if c.Column == "caption" {
				p.Caption = c.Value.(string)
			}
		}
	}), nil
}

func (r fakePhotos) Delete(_ context.Context, id int64) (int64, error) { return r.t.remove(id), nil }

type fakeManager struct {
	users      *table[*models.User]
	businesses *table[*models.Business]
	reviews    *table[*models.Review]
	photos     *table[*models.Photo]
}

func newFakeManager() *fakeManager {
	return &fakeManager{
		users:      newTable[*models.User](),
		businesses: newTable[*models.Business](),
		reviews:    newTable[*models.Review](),
		photos:     newTable[*models.Photo](),
	}
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Users(dbx.DBTX) users.Repository            { return fakeUsers{m.users} }
func (m *fakeManager) Businesses(dbx.DBTX) businesses.Repository  { return fakeBusinesses{m.businesses} }
func (m *fakeManager) Reviews(dbx.DBTX) reviews.Repository        { return fakeReviews{m.reviews} }
func (m *fakeManager) Photos(dbx.DBTX) photos.Repository          { return fakePhotos{m.photos} }

func (m *fakeManager) mutations() int {
	return m.users.mutations + m.businesses.mutations + m.reviews.mutations + m.photos.mutations
}

type fakeStore struct {
	putErr  error
	deleted []string
	delErr  error
}

func (s *fakeStore) PresignPut(_ context.Context, key, contentType string) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	return "https://store/put/" + key + "?type=" + contentType, nil
}

func (s *fakeStore) PresignGet(_ context.Context, key string) (string, error) {
	return "https://store/get/" + key, nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return s.delErr
}
