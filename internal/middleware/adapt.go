package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Adapt runs a net/http middleware inside a Gin chain. The request the
// middleware passes on replaces c.Request, so context values survive. If the
// middleware answers on its own and never calls next, the chain stops.
func Adapt(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		called := false
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			c.Request = r
			c.Next()
		})

		mw(next).ServeHTTP(c.Writer, c.Request)

		if !called {
			c.Abort()
		}
	}
}

// GinRequireAuth adapts the net/http AuthMiddleware to Gin.
func GinRequireAuth(auth *AuthMiddleware) gin.HandlerFunc {
	return Adapt(auth.RequireAuth)
}
