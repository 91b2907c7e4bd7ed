package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfRouter() *gin.Engine {
	r := gin.New()
	r.Use(Adapt(CSRF(CSRFConfig{
		AuthKey:        []byte("0123456789abcdef0123456789abcdef"),
		TrustedOrigins: []string{"http://localhost:3000"},
	})))
	r.GET("/csrf-token", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"csrfToken": CSRFToken(c)})
	})
	r.POST("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return r
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/protected", strings.NewReader("{}")))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"message":"invalid CSRF token"}`, rec.Body.String())
}

func TestCSRFAcceptsIssuedToken(t *testing.T) {
	r := csrfRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/csrf-token", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.CSRFToken)

	req := httptest.NewRequest(http.MethodPost, "/protected", strings.NewReader("{}"))
	req.Header.Set(CSRFHeader, body.CSRFToken)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
