package provider

import (
	"context"

	"oauth-backend/internal/auth"

	"golang.org/x/oauth2"
)

// OAuthProvider defines the contract every external auth provider
// must implement. Implementations return identity facts only and
// must not perform user creation, linking, or session management.
type OAuthProvider interface {
	// Name returns the provider identifier used in routes ("google", "github").
	Name() string

	// AuthCodeURL returns the consent URL. State and PKCE challenge are
	// provided by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the authorization code and returns a
	// normalized identity. No auth decisions are made here.
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.ExternalIdentity, error)
}

// PKCEAuthOptions returns the auth URL options for an S256 challenge.
func PKCEAuthOptions(codeChallenge string) []oauth2.AuthCodeOption {
	return []oauth2.AuthCodeOption{
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	}
}

// VerifierOption attaches the PKCE verifier to a token exchange.
func VerifierOption(codeVerifier string) oauth2.AuthCodeOption {
	return oauth2.SetAuthURLParam("code_verifier", codeVerifier)
}
