package auth

import "context"

type ctxKey struct{}

// Principal is the authenticated identity extracted from a verified JWT.
// depgraph is single-tenant — there is no tenant/scope/role model to carry,
// just who is calling.
type Principal struct {
	Sub    string `json:"sub"`
	Email  string `json:"email"`
	Issuer string `json:"issuer"`
}

// WithPrincipal stores a Principal in the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

// PrincipalFrom extracts the Principal from the context.
func PrincipalFrom(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(*Principal)
	return p, ok
}
