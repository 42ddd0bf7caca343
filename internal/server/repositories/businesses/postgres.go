package businesses

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/dbx"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
)

const columns = `id, owner_id, name, address, city, state, zip, phone, category, subcategory, website, email, created_at`

var constraintMessages = dbx.ConstraintMessages{
	"businesses_owner_id_fkey": "ownerId must reference an existing user",
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, b *models.Business) (*models.Business, error) {
	query :=
		`INSERT INTO businesses (owner_id, name, address, city, state, zip, phone, category, subcategory, website, email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		b.OwnerID, b.Name, b.Address, b.City, b.State, b.Zip, b.Phone,
		b.Category, b.Subcategory, b.Website, b.Email).Scan(&b.ID, &b.CreatedAt)
	if err != nil {
		return nil, dbx.ConstraintError(err, constraintMessages)
	}
	return b, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.Business, error) {
	query := `SELECT ` + columns + ` FROM businesses WHERE id = $1`

	b, err := scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return b, nil
}

func (r *PostgresRepository) FindAll(ctx context.Context, f models.Filter) ([]*models.Business, int64, error) {
	q := &dbx.Query{}
	q.EqIf(f.OwnerID != 0, "owner_id", f.OwnerID)
	where := q.Where()

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM businesses`+where, q.Args()...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	page := q.Page(f.Limit, f.Offset)
	rows, err := r.db.QueryContext(ctx, `SELECT `+columns+` FROM businesses`+where+` ORDER BY id`+page, q.Args()...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Business, 0)
	for rows.Next() {
		b, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, b)
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
	query := fmt.Sprintf(`UPDATE businesses SET %s WHERE id = $%d`, set, next)

	n, err := dbx.RowsAffected(r.db.ExecContext(ctx, query, append(changes.Values(), id)...))
	if err != nil {
		return 0, dbx.ConstraintError(err, constraintMessages)
	}
	return n, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	n, err := dbx.RowsAffected(r.db.ExecContext(ctx, `DELETE FROM businesses WHERE id = $1`, id))
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Business, error) {
	b := &models.Business{}
	err := s.Scan(&b.ID, &b.OwnerID, &b.Name, &b.Address, &b.City, &b.State, &b.Zip,
		&b.Phone, &b.Category, &b.Subcategory, &b.Website, &b.Email, &b.CreatedAt)
	if err != nil {
		return nil, err
	}
	return b, nil
}
