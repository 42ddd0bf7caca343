package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/dbx"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
)

const columns = `id, user_id, business_id, caption, storage_key, content_type, created_at`

var constraintMessages = dbx.ConstraintMessages{
	"photos_user_id_fkey":     "userId must reference an existing user",
	"photos_business_id_fkey": "businessId must reference an existing business",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, p *models.Photo) (*models.Photo, error) {
	query :=
		`INSERT INTO photos (user_id, business_id, caption, storage_key, content_type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		p.UserID, p.BusinessID, p.Caption, p.StorageKey, p.ContentType).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, dbx.ConstraintError(err, constraintMessages)
	}
	return p, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Photo, error) {
	p, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM photos WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, f models.Filter) ([]*models.Photo, int64, error) {
	q := &dbx.Query{}
	q.EqIf(f.OwnerID != 0, "user_id", f.OwnerID)
	q.EqIf(f.BusinessID != 0, "business_id", f.BusinessID)
	where := q.Where()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos`+where, q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	page := q.Page(f.Limit, f.Offset)
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM photos`+where+` ORDER BY id`+page, q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Photo, 0)
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	return result, total, nil
}

func (r *PostgresRepository) Update(ctx context.Context, id int64, changes models.Changes) (int64, error) {
	if changes.Empty() {
		return 0, common.NewValidationError("no updatable fields provided")
	}

	set, next := dbx.SetClause(changes.Columns())
	query := fmt.Sprintf(`UPDATE photos SET %s WHERE id = $%d`, set, next)

	n, err := dbx.RowsAffected(r.db.ExecContext(ctx, query, append(changes.Values(), id)...))
	if err != nil {
		return 0, dbx.ConstraintError(err, constraintMessages)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := dbx.RowsAffected(r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = $1`, id))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Photo, error) {
	p := &models.Photo{}
	if err := s.Scan(&p.ID, &p.UserID, &p.BusinessID, &p.Caption, &p.StorageKey, &p.ContentType, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}
