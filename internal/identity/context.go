package identity

import "context"

type ctxKey struct{}

// WithIdentity stores the caller's identity in the context.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext returns the identity stored in the context, or nil when the
// caller is anonymous.
func FromContext(ctx context.Context) *Identity {
	id, _ := ctx.Value(ctxKey{}).(*Identity)
	return id
}

// ContextProvider resolves the identity previously stored in the context by
// the transport layer.
type ContextProvider struct{}

func (ContextProvider) Resolve(ctx context.Context) (*Identity, error) {
	return FromContext(ctx), nil
}
