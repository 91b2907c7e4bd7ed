package handler

import (
	"crypto/sha256"
	"encoding/base64"
	"time"

	"oauth-backend/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	pkceCookieName = "__oauth_pkce"
	pkceTTL        = 5 * time.Minute
)

// generatePKCE stores a fresh verifier in a cookie and returns it with its
// S256 challenge.
func (h *Handler) generatePKCE(c *gin.Context) (verifier string, challenge string, err error) {
	verifier, err = utils.RandomString(32)
	if err != nil {
		return "", "", err
	}
	h.setFlowCookie(c, pkceCookieName, verifier, pkceTTL)
	return verifier, pkceChallenge(verifier), nil
}

func pkceChallenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

func (h *Handler) consumePKCEVerifier(c *gin.Context) string {
	cookie, err := c.Request.Cookie(pkceCookieName)
	if err != nil {
		return ""
	}
	h.setFlowCookie(c, pkceCookieName, "", -1)
	return cookie.Value
}
