package auth

import (
	"context"

	"github.com/google/uuid"

	"github.com/quantum5d/quantum5d/internal/platform/fault"
)

type contextKey string

const identityKey contextKey = "identity"

// Identity is the authenticated owner of every row the API touches. It is
// resolved once per request by the auth middleware and threaded explicitly
// into every service call; services never consult ambient state.
type Identity struct {
	UserID uuid.UUID
}

// WithIdentity returns a context carrying the authenticated identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext extracts the authenticated identity. Callers receive an
// AuthMissing fault when no identity was established, which entity
// operations must surface before touching the store.
func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(identityKey).(Identity)
	if !ok || id.UserID == uuid.Nil {
		return Identity{}, fault.AuthMissing()
	}
	return id, nil
}
