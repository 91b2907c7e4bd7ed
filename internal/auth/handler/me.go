package handler

import (
	"errors"
	"net/http"

	"oauth-backend/internal/middleware"
	"oauth-backend/internal/user"

	"github.com/gin-gonic/gin"
)

// Me returns the authenticated user. The password hash never leaves the
// server.
func (h *Handler) Me(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}

	u, err := h.users.FindByID(c.Request.Context(), userID)
	if errors.Is(err, user.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorized"})
		return
	}
	if err != nil {
		h.internalError(c, "user lookup failed", err)
		return
	}

	c.JSON(http.StatusOK, u)
}

// CSRFToken hands the SPA a token for its next unsafe request.
func (h *Handler) CSRFToken(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"csrfToken": middleware.CSRFToken(c)})
}

// Protected is a sample endpoint that only runs with a valid CSRF token.
func (h *Handler) Protected(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "This action is CSRF-protected and succeeded!"})
}
