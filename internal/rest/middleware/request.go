package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/shariahscreen/shariahscreen/internal/types"
)

// RequestIDMiddleware attaches a request ID to the context and response
// headers, honoring an X-Request-ID supplied by the caller
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}

	ctx := types.SetRequestID(c.Request.Context(), requestID)
	c.Request = c.Request.WithContext(ctx)
	c.Header("X-Request-ID", requestID)
	c.Next()
}
