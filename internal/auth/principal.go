package auth

import "context"

// Principal is the authenticated admin attached to a request by the guards.
type Principal struct {
	AdminID  int
	Username string
	// SessionID is empty when the request carried no session header.
	SessionID string
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
