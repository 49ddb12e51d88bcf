package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizzer/quizzer-api/internal/auth"
)

// RequireLogin rejects requests without an authenticated session user with 401.
// auth.Authenticator.Identify must run earlier in the chain.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.IsAuthenticated(c) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
