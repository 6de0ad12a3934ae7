package auth

import "context"

// Principal is the authenticated identity attached to a request context by
// the session validation middleware.
type Principal struct {
	UserID string
	Role   string
}

type principalContextKey struct{}

func NewContextWithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
