package admin

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func stubDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	old := openDB
	openDB = func(context.Context, string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { openDB = old })
	return mock
}

func TestHashPassword_Stdin(t *testing.T) {
	out, err := execute(t, "correcthorse\n", "hash-password", "--password-stdin", "--cost", "4")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("correcthorse")))
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 4, cost)
}

func TestHashPassword_Terminal(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return []byte("from-terminal"), nil }

	out, err := execute(t, "", "hash-password", "--cost", "4")
	require.NoError(t, err)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(strings.TrimSpace(out)), []byte("from-terminal")))
}

func TestHashPassword_TerminalError(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }

	_, err := execute(t, "", "hash-password")
	require.ErrorContains(t, err, "not a terminal")
}

func TestCreateAdmin(t *testing.T) {
	mock := stubDB(t)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Root", "root@example.com", sqlmock.AnyArg(), true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(1), time.Now()))
	mock.ExpectClose()

	out, err := execute(t, "correcthorse\n", "create-admin", "--name", "Root", "--email", "root@example.com", "--password-stdin", "--cost", "4")
	require.NoError(t, err)
	assert.Equal(t, "created administrator root@example.com with id 1\n", out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAdmin_WeakPassword(t *testing.T) {
	mock := stubDB(t)
	mock.ExpectClose()

	_, err := execute(t, "short\n", "create-admin", "--name", "Root", "--email", "root@example.com", "--password-stdin", "--cost", "4")
	require.ErrorContains(t, err, "password must be at least 8 characters in length")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAdmin_RequiresFlags(t *testing.T) {
	_, err := execute(t, "", "create-admin")
	require.Error(t, err)
}

func TestMigrate(t *testing.T) {
	mock := stubDB(t)
	mock.ExpectClose()

	old := runMigrations
	defer func() { runMigrations = old }()
	called := false
	runMigrations = func(context.Context, *sql.DB) error {
		called = true
		return nil
	}

	out, err := execute(t, "", "migrate", "--dsn", "postgres://example")
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "migrations applied\n", out)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_OpenFailure(t *testing.T) {
	old := openDB
	defer func() { openDB = old }()
	openDB = func(context.Context, string) (*sql.DB, error) { return nil, errors.New("refused") }

	_, err := execute(t, "", "migrate")
	require.ErrorContains(t, err, "db init error: refused")
}

func TestUploadPhoto(t *testing.T) {
	var gotCT string
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer ts.Close()

	path := filepath.Join(t.TempDir(), "patio.PNG")
	require.NoError(t, os.WriteFile(path, []byte("png-bytes"), 0o600))

	out, err := execute(t, "", "upload-photo", "--url", ts.URL+"/k?sig=1", "--file", path)
	require.NoError(t, err)
	assert.Equal(t, "uploaded 9 bytes as image/png\n", out)
	assert.Equal(t, "image/png", gotCT)
	assert.Equal(t, "png-bytes", string(gotBody))
}

func TestUploadPhoto_UnknownType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	_, err := execute(t, "", "upload-photo", "--url", "http://127.0.0.1:1/", "--file", path)
	require.ErrorContains(t, err, "cannot infer content type")
}
