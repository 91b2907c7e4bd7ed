package facebook

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"oauth-backend/internal/auth"
	"oauth-backend/internal/auth/provider"
	"oauth-backend/internal/user"

	"golang.org/x/oauth2"
	facebookoauth "golang.org/x/oauth2/facebook"
)

const (
	providerName     = "facebook"
	DefaultGraphBase = "https://graph.facebook.com"
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	Endpoint  oauth2.Endpoint
	GraphBase string
}

type Provider struct {
	oauthConfig *oauth2.Config
	graphBase   string
}

func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("facebook oauth config missing required fields")
	}

	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = facebookoauth.Endpoint
	}
	graphBase := strings.TrimRight(cfg.GraphBase, "/")
	if graphBase == "" {
		graphBase = DefaultGraphBase
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"email"},
		},
		graphBase: graphBase,
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
		return nil, fmt.Errorf("facebook token exchange failed: %w", err)
	}

	var me struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	url := p.graphBase + "/me?fields=id,name,email"
	if err := provider.GetJSON(ctx, p.oauthConfig.Client(ctx, token), url, &me); err != nil {
		return nil, fmt.Errorf("facebook profile fetch failed: %w", err)
	}
	if me.ID == "" {
		return nil, errors.New("facebook profile missing id")
	}

	return &auth.ExternalIdentity{
		Provider:    user.ProviderFacebook,
		SubjectID:   me.ID,
		DisplayName: me.Name,
		Email:       me.Email,
		// Graph only exposes confirmed addresses.
		EmailVerified: me.Email != "",
	}, nil
}
