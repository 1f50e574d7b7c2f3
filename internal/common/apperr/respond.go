package apperr

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"easysmm-backend/internal/common/logger"
)

// Respond writes err as a JSON error response. Internal causes are logged
// with request context but never leak to the client.
func Respond(c *gin.Context, err error) {
	appErr, ok := As(err)
	if !ok {
		appErr = Wrap(err, CodeInternal, "Internal server error")
	}

	event := logger.Warn()
	if appErr.Code == CodeInternal || appErr.Code == CodeUpstreamUnavailable {
		event = logger.Error()
	}
	event.
		Str("error_code", string(appErr.Code)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path).
		Err(appErr.Cause).
		Msg(appErr.Message)

	status := HTTPStatus(appErr.Code)
	message := appErr.Message
	if status == http.StatusInternalServerError {
		// Never expose upstream/internal detail.
		message = "Service temporarily unavailable, please retry"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": appErr.Code})
}
