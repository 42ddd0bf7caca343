package auth

import (
	"context"
	"time"
)

// Identity is the verified caller of a single request. It is built only
// from verified claims and never shared between requests. A nil
// *Identity means the caller is anonymous.
type Identity struct {
	SubjectID int64
	Name      string
	Email     string
	Admin     bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func identityFromClaims(c *Claims) *Identity {
	id := &Identity{
		SubjectID: c.UserID,
		Name:      c.Name,
		Email:     c.Email,
		Admin:     c.Admin,
	}
	if c.IssuedAt != nil {
		id.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity stored by WithIdentity, if any.
func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*Identity)
	return id, ok && id != nil
}
