package middleware

import (
	"net/http"
	"net/url"

	"oauth-backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
)

const (
	CSRFHeader     = "csrf-token"
	CSRFCookieName = "_csrf"
)

type CSRFConfig struct {
	// AuthKey must be 32 bytes.
	AuthKey []byte
	Secure  bool
	// TrustedOrigins are extra origins allowed to post, e.g. the frontend.
	TrustedOrigins []string
}

// CSRF rejects unsafe requests without a valid token using the
// double-submit cookie scheme.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	hosts := make([]string, 0, len(cfg.TrustedOrigins))
	for _, o := range cfg.TrustedOrigins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}

	protect := csrf.Protect(cfg.AuthKey,
		csrf.CookieName(CSRFCookieName),
		csrf.RequestHeader(CSRFHeader),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.Secure(cfg.Secure),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(hosts),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	return func(next http.Handler) http.Handler {
		h := protect(next)
		if cfg.Secure {
			return h
		}
		// Plain HTTP deployments skip the TLS-only referer check.
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

// CSRFToken returns the masked token for the current request.
func CSRFToken(c *gin.Context) string {
	return csrf.Token(c.Request)
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	fields := map[string]any{"path": r.URL.Path}
	if reason := csrf.FailureReason(r); reason != nil {
		fields["reason"] = reason.Error()
	}
	logger.Warn("csrf check failed", fields)
	writeJSON(w, http.StatusForbidden, map[string]string{"message": "invalid CSRF token"})
}
