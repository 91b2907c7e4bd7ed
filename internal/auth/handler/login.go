package handler

import (
	"errors"
	"net/http"

	"oauth-backend/internal/auth/credentials"
	"oauth-backend/internal/logger"
	"oauth-backend/internal/session"

	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if !h.bind(c, &req) {
		return
	}

	u, err := h.credentials.Authenticate(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, credentials.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
		return
	}
	if err != nil {
		logger.Error("login failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed", "error": "store_unavailable"})
		return
	}

	accessToken, _, err := h.tokens.Issue(u.ID)
	if err != nil {
		h.internalError(c, "token issue failed", err)
		return
	}
	if err := h.startSession(c, u.ID); err != nil {
		h.internalError(c, "session start failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"userId":  u.ID,
		"token":   accessToken,
	})
}

// Logout deletes the server-side session and clears the cookie. It always
// answers 204.
func (h *Handler) Logout(c *gin.Context) {
	if sessionID, ok := session.ReadCookie(c.Request, h.opts.Cookie); ok {
		if err := h.sessionStore.Delete(c.Request.Context(), sessionID); err != nil {
			logger.Warn("session delete failed", map[string]any{"error": err.Error()})
		}
	}

	session.ClearCookie(c.Writer, h.opts.Cookie)
	c.Status(http.StatusNoContent)
}
