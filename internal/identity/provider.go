// Package identity models the caller's identity as supplied by an external
// authentication provider. Authentication itself is out of scope; the engine
// only needs an opaque identity, or none for anonymous callers.
package identity

import (
	"context"

	"github.com/google/uuid"
)

// Identity is an authenticated caller.
type Identity struct {
	ID   uuid.UUID
	Name string
}

// Provider resolves the identity of the current caller.
// Resolve returns nil for anonymous callers.
type Provider interface {
	Resolve(ctx context.Context) (*Identity, error)
}
