package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"easysmm-backend/internal/common/logger"
	"easysmm-backend/internal/features/user/service"
)

// CheckBanned refuses banned users before any feature handler runs. The
// identity sync endpoint is mounted outside this middleware so a banned user
// still receives isBanned=true and the client can render its restricted
// screen.
func CheckBanned(users service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ident, ok := Identity(c)
		if !ok {
			c.Next()
			return
		}

		if IsAdmin(c) {
			c.Next()
			return
		}

		banned, err := users.IsBanned(c.Request.Context(), ident.ID)
		if err != nil {
			// Fail open, but visibly: the gate degrading must show up in logs.
			logger.Error().Err(err).Int64("user_id", ident.ID).Msg("ban check unavailable, letting request through")
		} else if banned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Your account has been banned"})
			return
		}

		c.Next()
	}
}
