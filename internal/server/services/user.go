// Package services contains server-side business logic. Each service loads
// the records a request touches, asks the authz policy for a decision and
// only then mutates through the repositories.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/server/auth"
	"github.com/dmitrijs2005/bizdir/internal/server/authz"
	"github.com/dmitrijs2005/bizdir/internal/server/models"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bizdir/internal/server/validation"
)

// ErrAdminRequired is returned when a non-administrator asks for an
// administrator account.
var ErrAdminRequired = fmt.Errorf("%w: only administrators may create administrator accounts", common.ErrForbidden)

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(subjectID int64, name, email string, admin bool) (string, error)
}

// UserService provides account operations:
// - Register: self-registration, or account creation by an administrator
// - Login: verify credentials and mint an access token
// - Get: read an account (self or administrator)
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	tokens      TokenIssuer
	validate    *validation.Validator
	// dummyHash is compared against on unknown emails so that a missing
	// account costs as much as a wrong password.
	dummyHash string
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.Hasher, tokens TokenIssuer, v *validation.Validator) (*UserService, error) {
	dummy, err := hasher.Hash("bizdir-dummy-password")
	if err != nil {
		return nil, err
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		validate:    v,
		dummyHash:   dummy,
	}, nil
}

// Register creates an account. Anyone may register; only an administrator
// caller may set the admin flag.
func (s *UserService) Register(ctx context.Context, caller *auth.Identity, in *models.NewUser) (*models.User, error) {
	if in.Admin && (caller == nil || !caller.Admin) {
		return nil, ErrAdminRequired
	}
	return s.create(ctx, in)
}

// Bootstrap creates an administrator account without a caller. It backs
// the admin CLI and is not reachable over the network.
func (s *UserService) Bootstrap(ctx context.Context, in *models.NewUser) (*models.User, error) {
	in.Admin = true
	return s.create(ctx, in)
}

func (s *UserService) create(ctx context.Context, in *models.NewUser) (*models.User, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{Name: in.Name, Email: in.Email, PasswordHash: hash, Admin: in.Admin}
	u, err := s.repomanager.Users(s.db).Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies email and password and returns a signed access token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, in *models.Credentials) (string, error) {
	if err := s.validate.Struct(in); err != nil {
		return "", err
	}

	user, err := s.repomanager.Users(s.db).FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Check(in.Password, s.dummyHash)
			return "", common.ErrorInvalidLoginPassword
		}
		return "", fmt.Errorf("error searching user: %w", err)
	}

	if !s.hasher.Check(in.Password, user.PasswordHash) {
		return "", common.ErrorInvalidLoginPassword
	}

	token, err := s.tokens.Issue(user.ID, user.Name, user.Email, user.Admin)
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}
	return token, nil
}

// Get returns the account id. The caller must be that account or an
// administrator.
func (s *UserService) Get(ctx context.Context, caller *auth.Identity, id int64) (*models.User, error) {
	if err := authz.AuthorizeAccount(caller, id, authz.KindAccount); err != nil {
		return nil, err
	}
	return s.repomanager.Users(s.db).FindByID(ctx, id)
}
