package google

import (
	"context"
	"errors"
	"fmt"

	"oauth-backend/internal/auth"
	"oauth-backend/internal/auth/provider"
	"oauth-backend/internal/logger"
	"oauth-backend/internal/user"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
)

const (
	providerName = "google"
	Issuer       = "https://accounts.google.com"
	CertsURL     = "https://www.googleapis.com/oauth2/v3/certs"
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint overrides Google's endpoint when non-zero.
	Endpoint oauth2.Endpoint
	// KeySet overrides the remote JWKS used to verify id_tokens.
	KeySet oidc.KeySet
}

type Provider struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// New builds the adapter without a discovery round-trip; keys are fetched
// lazily on the first verification.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = googleoauth.Endpoint
	}
	keySet := cfg.KeySet
	if keySet == nil {
		keySet = oidc.NewRemoteKeySet(ctx, CertsURL)
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: oidc.NewVerifier(Issuer, keySet, &oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(state, provider.PKCEAuthOptions(codeChallenge)...)
}

func (p *Provider) ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.ExternalIdentity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, provider.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("google did not return id_token")
	}

	idToken, err := p.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims struct {
		Subject       string `json:"sub"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("google id_token claims parse failed: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("google id_token missing subject")
	}

	logger.Debug("google oidc verified", map[string]any{
		"email_present":  claims.Email != "",
		"email_verified": claims.EmailVerified,
		"expiry_unix":    idToken.Expiry.Unix(),
	})

	return &auth.ExternalIdentity{
		Provider:      user.ProviderGoogle,
		SubjectID:     claims.Subject,
		DisplayName:   claims.Name,
		Handle:        claims.Email,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
	}, nil
}
