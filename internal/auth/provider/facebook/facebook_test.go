package facebook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"oauth-backend/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func TestExchangeCode(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "fb-token", "token_type": "bearer"})
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "id,name,email", r.URL.Query().Get("fields"))
		assert.Equal(t, "Bearer fb-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "10158", "name": "Ann Lee"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p, err := New(Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/cb",
		Endpoint:     oauth2.Endpoint{AuthURL: srv.URL + "/dialog", TokenURL: srv.URL + "/token"},
		GraphBase:    srv.URL,
	})
	require.NoError(t, err)

	identity, err := p.ExchangeCode(context.Background(), "code-1", "verifier-1")
	require.NoError(t, err)
	assert.Equal(t, user.ProviderFacebook, identity.Provider)
	assert.Equal(t, "10158", identity.SubjectID)
	assert.Equal(t, "Ann Lee", identity.Name())
	assert.Empty(t, identity.Email)
	assert.False(t, identity.EmailVerified)
}

func TestExchangeCodeTokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer srv.Close()

	p, err := New(Config{
		ClientID:     "client",
		ClientSecret: "secret",
		RedirectURL:  "http://localhost/cb",
		Endpoint:     oauth2.Endpoint{AuthURL: srv.URL + "/dialog", TokenURL: srv.URL + "/token"},
		GraphBase:    srv.URL,
	})
	require.NoError(t, err)

	_, err = p.ExchangeCode(context.Background(), "bad", "verifier")
	assert.Error(t, err)
}

func TestAuthCodeURLDefaultsToFacebook(t *testing.T) {
	p, err := New(Config{ClientID: "client", ClientSecret: "secret", RedirectURL: "http://localhost/cb"})
	require.NoError(t, err)

	u, err := url.Parse(p.AuthCodeURL("s", "c"))
	require.NoError(t, err)
	assert.Equal(t, "www.facebook.com", u.Host)
	assert.Equal(t, "client", u.Query().Get("client_id"))
	assert.Equal(t, "s", u.Query().Get("state"))
	assert.Equal(t, "S256", u.Query().Get("code_challenge_method"))
}
