package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"oauth-backend/internal/auth/provider"
	"oauth-backend/internal/auth/reconciler"
	"oauth-backend/internal/logger"
	"oauth-backend/internal/session"
	"oauth-backend/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
)

// Authenticator verifies local email/password credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*user.User, error)
}

// TokenIssuer signs access tokens for a user id.
type TokenIssuer interface {
	Issue(userID string) (string, time.Time, error)
}

type Options struct {
	// FrontendURL receives the browser after a successful OAuth login.
	FrontendURL string
	// FailureRedirect receives the browser after any failed OAuth callback.
	FailureRedirect string
	SessionTTL      time.Duration
	Cookie          session.CookieOptions
}

type Deps struct {
	Providers   *provider.Registry
	Sessions    session.Store
	Reconciler  reconciler.Reconciler
	Credentials Authenticator
	Users       user.Store
	Tokens      TokenIssuer
}

type Handler struct {
	providers    *provider.Registry
	sessionStore session.Store
	reconciler   reconciler.Reconciler
	credentials  Authenticator
	users        user.Store
	tokens       TokenIssuer
	sanitizer    *bluemonday.Policy
	opts         Options
}

func NewHandler(deps Deps, opts Options) *Handler {
	registerValidators()

	if opts.FailureRedirect == "" {
		opts.FailureRedirect = "/login"
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 24 * time.Hour
	}

	return &Handler{
		providers:    deps.Providers,
		sessionStore: deps.Sessions,
		reconciler:   deps.Reconciler,
		credentials:  deps.Credentials,
		users:        deps.Users,
		tokens:       deps.Tokens,
		sanitizer:    bluemonday.StrictPolicy(),
		opts:         opts,
	}
}

// RegisterRoutes mounts the auth endpoints. requireAuth guards /api.
func (h *Handler) RegisterRoutes(r *gin.Engine, requireAuth gin.HandlerFunc) {
	r.GET("/auth/:provider", h.start)
	r.GET("/auth/:provider/callback", h.callback)
	r.POST("/auth/register", h.Register)
	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)

	r.GET("/csrf-token", h.CSRFToken)
	r.POST("/protected", h.Protected)

	api := r.Group("/api", requireAuth)
	api.GET("/me", h.Me)

	for _, route := range r.Routes() {
		logger.Debug("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}
}

// start redirects the browser to the provider's consent page.
func (h *Handler) start(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.oauthProvider(providerName)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "unknown oauth provider"})
		return
	}

	state, err := h.generateState(c)
	if err != nil {
		h.internalError(c, "oauth start failed", err)
		return
	}
	_, codeChallenge, err := h.generatePKCE(c)
	if err != nil {
		h.internalError(c, "oauth start failed", err)
		return
	}

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, codeChallenge))
}

// callback completes the OAuth flow. Every failure sends the browser to the
// login page; a success sets the session cookie and returns to the frontend.
func (h *Handler) callback(c *gin.Context) {
	providerName := c.Param("provider")
	fail := func(reason string, fields map[string]any) {
		if fields == nil {
			fields = map[string]any{}
		}
		fields["provider"] = providerName
		fields["reason"] = reason
		logger.Warn("oauth callback rejected", fields)
		c.Redirect(http.StatusFound, h.opts.FailureRedirect)
	}

	// Flow cookies are single use.
	codeVerifier := h.consumePKCEVerifier(c)
	stateOK := h.consumeState(c)

	p, err := h.oauthProvider(providerName)
	if err != nil {
		fail("unknown_provider", nil)
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		fail("provider_error", map[string]any{
			"error": errParam,
			"desc":  c.Query("error_description"),
		})
		return
	}
	if !stateOK {
		fail("invalid_state", nil)
		return
	}

	code := c.Query("code")
	if code == "" {
		fail("missing_code", nil)
		return
	}
	if codeVerifier == "" {
		fail("missing_pkce_verifier", nil)
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		fail("exchange_failed", map[string]any{"error": err.Error()})
		return
	}

	u, err := h.reconciler.ReconcileExternal(c.Request.Context(), *identity)
	if err != nil {
		fail("reconcile_failed", map[string]any{"error": err.Error()})
		return
	}

	if err := h.startSession(c, u.ID); err != nil {
		fail("session_failed", map[string]any{"error": err.Error()})
		return
	}

	logger.Info("oauth login succeeded", map[string]any{
		"provider":  providerName,
		"user_id":   u.ID,
		"client_ip": c.ClientIP(),
	})
	c.Redirect(http.StatusFound, h.opts.FrontendURL)
}

// oauthProvider resolves a route segment to a registered OAuth provider.
// Unknown names and "local" are rejected before the registry is consulted.
func (h *Handler) oauthProvider(name string) (provider.OAuthProvider, error) {
	p, err := user.ParseProvider(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrUnknownProvider, err)
	}
	if p == user.ProviderLocal {
		return nil, fmt.Errorf("%w: %s", provider.ErrUnknownProvider, name)
	}
	return h.providers.Get(string(p))
}

// startSession persists a session for userID and sets its cookie.
func (h *Handler) startSession(c *gin.Context, userID string) error {
	sess, err := session.New(userID, h.opts.SessionTTL)
	if err != nil {
		return err
	}
	if err := h.sessionStore.Create(c.Request.Context(), sess); err != nil {
		return err
	}
	session.SetCookie(c.Writer, sess.SessionID, sess.ExpiresAt, h.opts.Cookie)
	return nil
}

func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	logger.Error(msg, map[string]any{"error": err.Error(), "path": c.Request.URL.Path})
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
}
