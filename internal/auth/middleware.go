package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CookieName = "token"
	claimsKey  = "authClaims"
)

// Middleware rejects requests without a valid session token before any
// handler runs. The Authorization header wins over the cookie.
func Middleware(tokens *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// CurrentUser returns the claims set by Middleware.
func CurrentUser(c *gin.Context) (*Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*Claims)
	return claims, ok
}

func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		if t := strings.TrimSpace(strings.TrimPrefix(h, "Bearer ")); t != "" {
			return t
		}
	}
	if cookie, err := c.Cookie(CookieName); err == nil {
		return strings.TrimSpace(cookie)
	}
	return ""
}
