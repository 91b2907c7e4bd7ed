package handler

import (
	"errors"
	"html"
	"net/http"
	"strings"

	"oauth-backend/internal/auth"
	"oauth-backend/internal/auth/reconciler"
	"oauth-backend/internal/logger"

	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Email    string `json:"email" binding:"required,email,max=320"`
	Password string `json:"password" binding:"required,min=8,maxbytes=72"`
}

// Register creates a local account, starts a session and returns an
// access token.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if !h.bind(c, &req) {
		return
	}

	name := h.plainText(req.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  gin.H{"name": "name is required"},
		})
		return
	}

	u, err := h.reconciler.RegisterLocal(c.Request.Context(), auth.LocalRegistration{
		Name:     name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, reconciler.ErrDuplicateEmail) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Email already in use"})
			return
		}
		logger.Error("registration failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Registration failed",
			"error":   errorKind(err),
		})
		return
	}

	accessToken, _, err := h.tokens.Issue(u.ID)
	if err != nil {
		logger.Error("token issue failed", map[string]any{"error": err.Error(), "user_id": u.ID})
		c.JSON(http.StatusInternalServerError, gin.H{
			"message": "Registration failed",
			"error":   errorKind(err),
		})
		return
	}

	// The account exists either way; a session failure only costs the cookie.
	if err := h.startSession(c, u.ID); err != nil {
		logger.Warn("session start failed after registration", map[string]any{
			"error":   err.Error(),
			"user_id": u.ID,
		})
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"userId":  u.ID,
		"token":   accessToken,
	})
}

// plainText strips markup and decodes the entities the sanitizer emits, so
// names are stored as the user typed them, minus tags.
func (h *Handler) plainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(h.sanitizer.Sanitize(s)))
}

// bind decodes the JSON body and writes the 400 response on failure.
func (h *Handler) bind(c *gin.Context, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}
	if fields, ok := validationErrors(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  fields,
		})
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
	return false
}

// errorKind is the stable code exposed in 500 bodies.
func errorKind(err error) string {
	switch {
	case errors.Is(err, reconciler.ErrStoreUnavailable):
		return "store_unavailable"
	case errors.Is(err, reconciler.ErrHashingFailure):
		return "hashing_failure"
	default:
		return "internal"
	}
}
