package auth

import "context"

type ctxKey struct{}

// WithClaims attaches verified claims to ctx.
func WithClaims(ctx context.Context, c Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFromContext returns the claims attached by the gate, if any.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	c, ok := ctx.Value(ctxKey{}).(Claims)
	return c, ok
}

// RequireClaims is ClaimsFromContext that fails with ErrAuthenticationRequired.
func RequireClaims(ctx context.Context) (Claims, error) {
	c, ok := ClaimsFromContext(ctx)
	if !ok {
		return Claims{}, ErrAuthenticationRequired
	}
	return c, nil
}
