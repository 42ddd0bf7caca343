// Package authz decides whether an identity may act on an owned resource.
//
// The rule is the same for every resource kind: administrators may do
// anything, everybody else only what they own. Policy adapts the rule to
// a concrete kind by knowing how to load a record and read its owner.
package authz

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/server/auth"
	"github.com/dmitrijs2005/bizdir/internal/server/pipeline"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

// KindAccount names the account itself for AuthorizeAccount.
const KindAccount = "account"

// Allow reports whether id may act on a resource owned by ownerID.
func Allow(id *auth.Identity, ownerID int64) bool {
	if id == nil {
		return false
	}
	return id.Admin || id.SubjectID == ownerID
}

// ForbiddenError is returned when an authenticated identity fails the
// ownership rule. It matches common.ErrForbidden with errors.Is.
type ForbiddenError struct {
	SubjectID     int64
	Action        Action
	Kind          string
	TargetID      int64
	DeclaredOwner int64
}

func (e *ForbiddenError) Error() string {
	switch e.Action {
	case ActionCreate:
		if e.Kind == "photo" {
			return fmt.Sprintf("User %d is not authorized to create a photo for user %d.", e.SubjectID, e.DeclaredOwner)
		}
		return fmt.Sprintf("User %d is not authorized to create a %s owned by %d.", e.SubjectID, e.Kind, e.DeclaredOwner)
	case ActionList:
		return fmt.Sprintf("User %d is not authorized to list %s of user %d.", e.SubjectID, e.Kind, e.TargetID)
	default:
		return fmt.Sprintf("User %d is not authorized to %s %s %d.", e.SubjectID, e.Action, e.Kind, e.TargetID)
	}
}

func (e *ForbiddenError) Is(target error) bool {
	return target == common.ErrForbidden
}

// Policy applies the ownership rule to one resource kind.
type Policy[T any] struct {
	// Kind is the singular name used in denial messages ("business").
	Kind string
	// Owner extracts the owning subject id from a loaded record.
	Owner func(T) int64
	// Load fetches a record by id and returns common.ErrorNotFound when
	// it does not exist.
	Load func(ctx context.Context, id int64) (T, error)
}

// AuthorizeCreate checks a create request against the owner declared in
// the payload. No record is loaded.
func (p Policy[T]) AuthorizeCreate(id *auth.Identity, declaredOwner int64) error {
	if id == nil {
		return common.ErrMissingCredentials
	}
	if !Allow(id, declaredOwner) {
		return &ForbiddenError{
			SubjectID:     id.SubjectID,
			Action:        ActionCreate,
			Kind:          p.Kind,
			DeclaredOwner: declaredOwner,
		}
	}
	return nil
}

// Authorize loads resourceID and checks action against its stored owner.
// A missing record is reported before any ownership decision, for
// administrators too. On success the loaded record is returned.
func (p Policy[T]) Authorize(ctx context.Context, id *auth.Identity, resourceID int64, action Action) (T, error) {
	var zero T
	if id == nil {
		return zero, common.ErrMissingCredentials
	}

	record, err := p.Load(ctx, resourceID)
	if err != nil {
		return zero, fmt.Errorf("load %s %d: %w", p.Kind, resourceID, err)
	}

	if id.Admin {
		return record, nil
	}
	if !Allow(id, p.Owner(record)) {
		return zero, &ForbiddenError{
			SubjectID: id.SubjectID,
			Action:    action,
			Kind:      p.Kind,
			TargetID:  resourceID,
		}
	}
	return record, nil
}

// AuthorizeAccount checks access to an account or to one of its
// collections (kind is then the plural collection name, e.g. "reviews").
func AuthorizeAccount(id *auth.Identity, accountID int64, kind string) error {
	if id == nil {
		return common.ErrMissingCredentials
	}
	if Allow(id, accountID) {
		return nil
	}

	action := ActionList
	if kind == KindAccount {
		action = ActionRead
	}
	return &ForbiddenError{
		SubjectID: id.SubjectID,
		Action:    action,
		Kind:      kind,
		TargetID:  accountID,
	}
}

// RequireAccount is a pipeline step running AuthorizeAccount for the
// identity stored in the context.
func RequireAccount(accountID int64, kind string) pipeline.Step {
	return func(ctx context.Context) (context.Context, error) {
		id, _ := auth.IdentityFrom(ctx)
		if err := AuthorizeAccount(id, accountID, kind); err != nil {
			return ctx, err
		}
		return ctx, nil
	}
}
