package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// Middleware validates a Bearer token when present and stores the Identity
// on the gin context. Requests without a token pass through as guests.
func Middleware(sessions *Sessions) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Ongeldige sessie."})
			c.Abort()
			return
		}
		id, err := sessions.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Ongeldige of verlopen sessie."})
			c.Abort()
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// RequireAuth aborts with 401 unless the request carries a valid identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentIdentity(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Niet ingelogd."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 403 unless the identity has the admin flag.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := CurrentIdentity(c)
		if !ok || !id.IsAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Niet toegestaan"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentIdentity returns the identity set by Middleware, if any.
func CurrentIdentity(c *gin.Context) (Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return Identity{}, false
	}
	id, ok := v.(Identity)
	return id, ok
}
