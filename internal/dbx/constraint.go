package dbx

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes surfaced to clients as validation failures.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
	pgCheckViolation      = "23514"
)

// ConstraintMessages maps constraint names to client-facing messages.
// Unknown constraints fall back to a generic message built from the
// PostgreSQL error detail.
type ConstraintMessages map[string]string

// ConstraintError converts a PostgreSQL integrity violation into a
// *common.ValidationError. Any other error is wrapped as "db error".
func ConstraintError(err error, messages ConstraintMessages) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("db error: %w", err)
	}

	if msg, ok := messages[pgErr.ConstraintName]; ok {
		switch pgErr.Code {
		case pgUniqueViolation, pgForeignKeyViolation, pgNotNullViolation, pgCheckViolation:
			return common.NewValidationError(msg)
		}
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return common.NewValidationError(fmt.Sprintf("%s must be unique", columnOrConstraint(pgErr)))
	case pgForeignKeyViolation:
		return common.NewValidationError(fmt.Sprintf("%s must reference an existing record", columnOrConstraint(pgErr)))
	case pgNotNullViolation:
		return common.NewValidationError(fmt.Sprintf("%s cannot be null", columnOrConstraint(pgErr)))
	case pgCheckViolation:
		return common.NewValidationError(fmt.Sprintf("%s violates check constraint", columnOrConstraint(pgErr)))
	}

	return fmt.Errorf("db error: %w", err)
}

func columnOrConstraint(e *pgconn.PgError) string {
	if e.ColumnName != "" {
		return e.ColumnName
	}
	if e.ConstraintName != "" {
		return e.ConstraintName
	}
	return "value"
}
