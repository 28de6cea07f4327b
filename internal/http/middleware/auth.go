// README: Firebase bearer-token auth middleware.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"pabili/internal/infra"
)

const callerKey = "caller"

// Auth rejects requests without a valid "Authorization: Bearer <id token>".
func Auth(verifier infra.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		caller, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil || caller == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(callerKey, caller)
		c.Next()
	}
}

// Caller returns the verified caller, or nil when auth is disabled.
func Caller(c *gin.Context) *infra.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*infra.Caller)
	return caller
}

func CallerUID(c *gin.Context) string {
	if caller := Caller(c); caller != nil {
		return caller.UID
	}
	return ""
}

func CallerRole(c *gin.Context) string {
	if caller := Caller(c); caller != nil {
		return caller.Role
	}
	return ""
}
