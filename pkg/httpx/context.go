package httpx

import "context"

// Identity is the per-request resolved caller. It is recomputed from a
// verified token on every request and never persisted.
type Identity struct {
	UserID int
	Role   string
}

type ctxKey string

const ctxKeyIdentity ctxKey = "identity"

// WithIdentity attaches the resolved identity to the request context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKeyIdentity, id)
}

// IdentityFromContext returns the resolved identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(ctxKeyIdentity).(Identity)
	return id, ok
}
