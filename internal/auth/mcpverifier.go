package auth

import (
	"context"
	"fmt"
	"net/http"

	sdkauth "github.com/modelcontextprotocol/go-sdk/auth"
)

// NewMCPTokenVerifier adapts our Verifier to the SDK's auth.TokenVerifier
// function type. It verifies the raw token using OIDC and stores the
// Principal in TokenInfo.Extra under "principal". PrincipalFrom does not
// read it: PrincipalFrom only sees a Principal set by WithPrincipal.
func NewMCPTokenVerifier(v *Verifier) sdkauth.TokenVerifier {
	return func(ctx context.Context, token string, _ *http.Request) (*sdkauth.TokenInfo, error) {
		principal, expiry, err := v.VerifyToken(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", sdkauth.ErrInvalidToken, err)
		}

		return &sdkauth.TokenInfo{
			UserID:     principal.Sub,
			Expiration: expiry,
			Extra: map[string]any{
				"principal": principal,
			},
		}, nil
	}
}
