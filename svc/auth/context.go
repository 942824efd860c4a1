package auth

import "context"

type authContextKey struct{}

// WithAuth stores the resolved identity for downstream handlers.
func WithAuth(ctx context.Context, a Auth) context.Context {
	return context.WithValue(ctx, authContextKey{}, a)
}

// FromContext returns the identity set by the middleware.
func FromContext(ctx context.Context) (Auth, bool) {
	a, ok := ctx.Value(authContextKey{}).(Auth)
	return a, ok
}
