package reviews

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/dbx"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
)

const columns = `id, user_id, business_id, dollars, stars, review, created_at`

var constraintMessages = dbx.ConstraintMessages{
	"reviews_user_id_fkey":      "userId must reference an existing user",
	"reviews_business_id_fkey":  "businessId must reference an existing business",
	"reviews_user_business_key": "user has already reviewed this business",
	"reviews_dollars_check":     "dollars must be between 1 and 4",
	"reviews_stars_check":       "stars must be between 0 and 5",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rv *models.Review) (*models.Review, error) {
	query :=
		`INSERT INTO reviews (user_id, business_id, dollars, stars, review)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		rv.UserID, rv.BusinessID, rv.Dollars, rv.Stars, rv.Review).Scan(&rv.ID, &rv.CreatedAt)
	if err != nil {
		return nil, dbx.ConstraintError(err, constraintMessages)
	}
	return rv, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Review, error) {
	rv, err := scan(r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rv, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, f models.Filter) ([]*models.Review, int64, error) {
	q := &dbx.Query{}
	q.EqIf(f.OwnerID != 0, "user_id", f.OwnerID)
	q.EqIf(f.BusinessID != 0, "business_id", f.BusinessID)
	where := q.Where()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reviews`+where, q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	page := q.Page(f.Limit, f.Offset)
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM reviews`+where+` ORDER BY id`+page, q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Review, 0)
	for rows.Next() {
		rv, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, rv)
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
	query := fmt.Sprintf(`UPDATE reviews SET %s WHERE id = $%d`, set, next)

	n, err := dbx.RowsAffected(r.db.ExecContext(ctx, query, append(changes.Values(), id)...))
	if err != nil {
		return 0, dbx.ConstraintError(err, constraintMessages)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := dbx.RowsAffected(r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Review, error) {
	rv := &models.Review{}
	if err := s.Scan(&rv.ID, &rv.UserID, &rv.BusinessID, &rv.Dollars, &rv.Stars, &rv.Review, &rv.CreatedAt); err != nil {
		return nil, err
	}
	return rv, nil
}
