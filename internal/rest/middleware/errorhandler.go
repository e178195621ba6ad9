package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/logger"
)

// ErrorHandler converts errors attached to the gin context into the standard
// JSON error envelope. Handlers record failures with c.Error and return; this
// middleware owns the response shape and status code.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := ierr.HTTPStatusFromErr(err)
		if status >= 500 {
			log.WithContext(c.Request.Context()).Errorw("request failed", "error", err)
		}

		c.JSON(status, ierr.NewErrorResponse(err))
	}
}
