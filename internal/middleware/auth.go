package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"oauth-backend/internal/auth/token"
	"oauth-backend/internal/session"
)

// unexported, collision-proof context key
type userIDContextKeyType struct{}

var userIDKey = userIDContextKeyType{}

// UserIDFromContext extracts the authenticated user ID from context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok
}

// WithUserID returns ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// TokenParser validates bearer access tokens.
type TokenParser interface {
	Parse(raw string) (*token.Claims, error)
}

type AuthMiddleware struct {
	Store  session.Store
	Cookie session.CookieOptions
	// Tokens is optional; when set, a valid bearer token also authenticates.
	Tokens TokenParser
}

func NewAuthMiddleware(store session.Store, cookie session.CookieOptions, tokens TokenParser) *AuthMiddleware {
	return &AuthMiddleware{Store: store, Cookie: cookie, Tokens: tokens}
}

// RequireAuth resolves the caller from the session cookie, then from an
// Authorization bearer token, and rejects the request with 401 otherwise.
func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.fromSession(r)
		if !ok {
			userID, ok = a.fromBearer(r)
		}
		if !ok {
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

func (a *AuthMiddleware) fromSession(r *http.Request) (string, bool) {
	sessionID, ok := session.ReadCookie(r, a.Cookie)
	if !ok {
		return "", false
	}

	sess, err := a.Store.Get(r.Context(), sessionID)
	if err != nil || sess == nil {
		return "", false
	}
	if sess.Expired(time.Now()) {
		_ = a.Store.Delete(r.Context(), sessionID)
		return "", false
	}
	return sess.UserID, true
}

func (a *AuthMiddleware) fromBearer(r *http.Request) (string, bool) {
	if a.Tokens == nil {
		return "", false
	}
	scheme, raw, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "bearer") || raw == "" {
		return "", false
	}
	claims, err := a.Tokens.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}
	return claims.UserID, true
}

func unauthorized(w http.ResponseWriter) {
	writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "unauthorized"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
