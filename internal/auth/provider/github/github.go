package github

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"oauth-backend/internal/auth"
	"oauth-backend/internal/auth/provider"
	"oauth-backend/internal/logger"
	"oauth-backend/internal/user"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"
)

const (
	providerName   = "github"
	DefaultAPIBase = "https://api.github.com"
)

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	Endpoint oauth2.Endpoint
	APIBase  string
}

type Provider struct {
	oauthConfig *oauth2.Config
	apiBase     string
}

func New(cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}

	endpoint := cfg.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = githuboauth.Endpoint
	}
	apiBase := strings.TrimRight(cfg.APIBase, "/")
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}

	return &Provider{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"user:email"},
		},
		apiBase: apiBase,
	}, nil
}

func (p *Provider) Name() string {
	return providerName
}

func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(state, provider.PKCEAuthOptions(codeChallenge)...)
}

type profile struct {
	ID    int64  `json:"id"`
	Login string `json:"login"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type email struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// ExchangeCode reads /user and, when the public email is hidden, the
// primary verified address from /user/emails.
func (p *Provider) ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.ExternalIdentity, error) {
	token, err := p.oauthConfig.Exchange(ctx, code, provider.VerifierOption(codeVerifier))
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}
	client := p.oauthConfig.Client(ctx, token)

	var prof profile
	if err := provider.GetJSON(ctx, client, p.apiBase+"/user", &prof); err != nil {
		return nil, fmt.Errorf("github profile fetch failed: %w", err)
	}
	if prof.ID == 0 {
		return nil, errors.New("github profile missing id")
	}

	identity := &auth.ExternalIdentity{
		Provider:    user.ProviderGitHub,
		SubjectID:   strconv.FormatInt(prof.ID, 10),
		DisplayName: prof.Name,
		Handle:      prof.Login,
		Email:       prof.Email,
	}

	var emails []email
	if err := provider.GetJSON(ctx, client, p.apiBase+"/user/emails", &emails); err != nil {
		// Email is optional; the identity stands without it.
		logger.Warn("github email lookup failed", map[string]any{"error": err.Error()})
		return identity, nil
	}
	for _, e := range emails {
		if e.Primary && e.Verified {
			identity.Email = e.Email
			identity.EmailVerified = true
			break
		}
	}
	return identity, nil
}
