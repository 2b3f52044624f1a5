package api

import (
	"context"
	"net/http"

	"github.com/felixgeelhaar/fairshare/internal/identity"
	"github.com/google/uuid"
)

// Headers carrying the caller's identity. Authentication happens upstream;
// the engine trusts these as opaque identifiers.
const (
	ViewerIDHeader   = "X-Viewer-ID"
	ViewerNameHeader = "X-Viewer-Name"
)

// resolveIdentity reads the viewer headers into the context. A missing or
// malformed id leaves the caller anonymous.
func resolveIdentity(ctx context.Context, r *http.Request) context.Context {
	raw := r.Header.Get(ViewerIDHeader)
	if raw == "" {
		return ctx
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return ctx
	}
	return identity.WithIdentity(ctx, &identity.Identity{
		ID:   id,
		Name: r.Header.Get(ViewerNameHeader),
	})
}
