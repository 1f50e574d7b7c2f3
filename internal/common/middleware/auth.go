package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"easysmm-backend/internal/features/auth"
)

const (
	identityKey = "identity"
	isAdminKey  = "is_admin"
)

// Auth verifies the init data envelope from the Authorization header (raw or
// with the conventional "tma " prefix; the legacy init_data header is still
// honored) and stores the verified identity in the request context. Every
// privileged decision downstream uses that identity only.
func Auth(verifier *auth.Verifier, adminID int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		raw = strings.TrimPrefix(raw, "tma ")
		if raw == "" {
			raw = c.GetHeader("init_data")
		}
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram init data required"})
			return
		}

		ident, err := verifier.Verify(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authErrorMessage(err)})
			return
		}

		c.Set(identityKey, ident)
		c.Set(isAdminKey, ident.ID == adminID)
		c.Next()
	}
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, auth.ErrExpired):
		return "Session expired, reopen the app"
	default:
		return "Invalid init data"
	}
}

// Identity returns the verified identity stored by Auth.
func Identity(c *gin.Context) (*auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	ident, ok := v.(*auth.Identity)
	return ident, ok
}

// IsAdmin reports whether the verified caller is the configured admin.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(isAdminKey)
}

// RequireAdmin rejects non-admin callers before the handler runs.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := Identity(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram init data required"})
			return
		}
		if !IsAdmin(c) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}
