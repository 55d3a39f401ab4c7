package auth

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

var (
	// ErrUnauthenticated means the request carried no caller identity.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInvalidIdentity means the caller identity was present but malformed.
	ErrInvalidIdentity = errors.New("invalid user ID")
)

// UserIDHeader is the request header HeaderResolver reads.
const UserIDHeader = "user-id"

// IdentityResolver extracts the acting account ID from a request.
type IdentityResolver interface {
	Resolve(r *http.Request) (int64, error)
}

// HeaderResolver trusts the numeric account ID the client puts in the
// user-id header. Anyone who knows an ID can act as that account; use
// JWTResolver where that matters.
type HeaderResolver struct{}

// Resolve implements IdentityResolver.
func (HeaderResolver) Resolve(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(UserIDHeader))
	if raw == "" {
		return 0, ErrUnauthenticated
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, ErrInvalidIdentity
	}
	return id, nil
}

type contextKey string

// accountIDKey is the context key for the resolved account ID.
const accountIDKey = contextKey("accountID")

// WithAccountID returns a copy of ctx carrying the account ID.
func WithAccountID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, accountIDKey, id)
}

// AccountID returns the account ID stored by RequireIdentity.
func AccountID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(accountIDKey).(int64)
	return id, ok
}
