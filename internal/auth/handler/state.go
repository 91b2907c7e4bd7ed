package handler

import (
	"crypto/subtle"
	"net/http"
	"time"

	"oauth-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	stateCookieName = "__oauth_state"
	stateTTL        = 5 * time.Minute
)

func (h *Handler) generateState(c *gin.Context) (string, error) {
	state, err := utils.RandomString(32)
	if err != nil {
		return "", err
	}
	h.setFlowCookie(c, stateCookieName, state, stateTTL)
	return state, nil
}

// consumeState compares the state query against the cookie and clears it.
func (h *Handler) consumeState(c *gin.Context) bool {
	stateQuery := c.Query("state")

	cookie, err := c.Request.Cookie(stateCookieName)
	if err != nil {
		return false
	}
	h.setFlowCookie(c, stateCookieName, "", -1)

	if stateQuery == "" || cookie.Value == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(stateQuery)) == 1
}

// setFlowCookie writes a short-lived OAuth flow cookie; ttl < 0 deletes it.
func (h *Handler) setFlowCookie(c *gin.Context, name, value string, ttl time.Duration) {
	maxAge := int(ttl.Seconds())
	if ttl < 0 {
		maxAge = -1
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.opts.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}
