package reviews

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

var cols = []string{"id", "user_id", "business_id", "dollars", "stars", "review", "created_at"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+reviews\s*\(user_id,\s*business_id,\s*dollars,\s*stars,\s*review\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5\)\s*RETURNING\s+id,\s*created_at$`).
		WithArgs(int64(3), int64(10), 2, 0, "meh").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), time.Now()))

	got, err := repo.Create(context.Background(), &models.Review{UserID: 3, BusinessID: 10, Dollars: 2, Stars: 0, Review: "meh"})
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != 5 {
		t.Fatalf("unexpected review: %+v", got)
	}
}

func TestCreate_DuplicateReview(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO reviews`).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "reviews_user_business_key"})

	_, err := repo.Create(context.Background(), &models.Review{UserID: 3, BusinessID: 10, Dollars: 2})

	var ve *common.ValidationError
	if !errors.As(err, &ve) || ve.Messages[0] != "user has already reviewed this business" {
		t.Fatalf("want duplicate review ValidationError, got %v", err)
	}
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT id, user_id, business_id, dollars, stars, review, created_at FROM reviews WHERE id = \$1$`).
		WithArgs(int64(1)).
		WillReturnError(sql.ErrNoRows)

	if _, err := repo.FindByID(context.Background(), 1); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestFindAll_ByBusiness(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM reviews WHERE business_id = \$1$`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`^SELECT id, .* FROM reviews WHERE business_id = \$1 ORDER BY id$`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(int64(5), int64(3), int64(10), 2, 4, "", time.Now()))

	list, total, err := repo.FindAll(context.Background(), models.Filter{BusinessID: 10})
	if err != nil {
		t.Fatalf("FindAll error: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].Stars != 4 || list[0].Owner() != 3 {
		t.Fatalf("unexpected result: total=%d list=%+v", total, list)
	}
}

func TestFindAll_ByUser(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM reviews WHERE user_id = \$1$`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(0)))
	mock.ExpectQuery(`^SELECT id, .* FROM reviews WHERE user_id = \$1 ORDER BY id$`).
		WithArgs(int64(3)).
		WillReturnError(errors.New("db err"))

	_, _, err := repo.FindAll(context.Background(), models.Filter{OwnerID: 3})
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^UPDATE reviews SET stars = \$1, review = \$2 WHERE id = \$3$`).
		WithArgs(5, "great", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	n, err := repo.Update(context.Background(), 5, models.Changes{
		{Column: "stars", Value: 5},
		{Column: "review", Value: "great"},
	})
	if err != nil || n != 1 {
		t.Fatalf("Update = %d, %v", n, err)
	}
}

func TestUpdate_CheckViolation(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE reviews SET dollars = \$1 WHERE id = \$2`).
		WithArgs(9, int64(5)).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "reviews_dollars_check"})

	_, err := repo.Update(context.Background(), 5, models.Changes{{Column: "dollars", Value: 9}})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestDelete_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`^DELETE FROM reviews WHERE id = \$1$`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if n, err := repo.Delete(context.Background(), 5); err != nil || n != 1 {
		t.Fatalf("Delete = %d, %v", n, err)
	}
}
