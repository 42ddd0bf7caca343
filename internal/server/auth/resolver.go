package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/bizdir/internal/common"
	"github.com/dmitrijs2005/bizdir/internal/logging"
	"github.com/dmitrijs2005/bizdir/internal/server/pipeline"
)

// Verifier checks a raw token and returns its claims.
type Verifier interface {
	Verify(token string) (*Claims, error)
}

// Resolver turns an Authorization header into an Identity.
type Resolver struct {
	verifier Verifier
	logger   logging.Logger
}

func NewResolver(verifier Verifier, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Resolver{verifier: verifier, logger: logger.With("module", "auth")}
}

// BearerToken extracts the token from a "Bearer <token>" header value.
// The scheme is matched case-insensitively.
func BearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// Resolve verifies the bearer token in header. It fails with
// common.ErrMissingCredentials when no usable token is present and with
// common.ErrInvalidToken when the token does not verify.
func (r *Resolver) Resolve(ctx context.Context, header string) (*Identity, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, common.ErrMissingCredentials
	}

	claims, err := r.verifier.Verify(token)
	if err != nil {
		r.logger.Warn(ctx, "token rejected", "token_prefix", tokenPrefix(token), "error", err)
		return nil, err
	}
	return identityFromClaims(claims), nil
}

func (r *Resolver) ResolveRequest(req *http.Request) (*Identity, error) {
	return r.Resolve(req.Context(), req.Header.Get(common.AuthorizationHeaderName))
}

// Optional is Resolve for routes that also serve anonymous callers: an
// absent header yields a nil identity and no error, while a header that is
// present but invalid is still an error.
func (r *Resolver) Optional(ctx context.Context, header string) (*Identity, error) {
	if strings.TrimSpace(header) == "" {
		return nil, nil
	}
	return r.Resolve(ctx, header)
}

// RequireIdentity is a pipeline step that resolves header and stores the
// identity in the context.
func RequireIdentity(r *Resolver, header string) pipeline.Step {
	return func(ctx context.Context) (context.Context, error) {
		id, err := r.Resolve(ctx, header)
		if err != nil {
			return ctx, err
		}
		return WithIdentity(ctx, id), nil
	}
}

// OptionalIdentity is like RequireIdentity but lets anonymous callers
// through with no identity in the context.
func OptionalIdentity(r *Resolver, header string) pipeline.Step {
	return func(ctx context.Context) (context.Context, error) {
		id, err := r.Optional(ctx, header)
		if err != nil {
			return ctx, err
		}
		if id == nil {
			return ctx, nil
		}
		return WithIdentity(ctx, id), nil
	}
}

func tokenPrefix(token string) string {
	if len(token) > 8 {
		return token[:8] + "..."
	}
	return "***"
}
