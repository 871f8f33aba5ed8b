package common

import "context"

// UserContext carries the authenticated user's identity through a request.
type UserContext struct {
	UserID string
	Email  string
}

type userContextKey struct{}

// WithUserContext returns a context carrying the user identity.
func WithUserContext(ctx context.Context, uc *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey{}, uc)
}

// GetUserContext returns the user identity from the context, or nil when the
// request was not authenticated.
func GetUserContext(ctx context.Context) *UserContext {
	uc, _ := ctx.Value(userContextKey{}).(*UserContext)
	return uc
}
