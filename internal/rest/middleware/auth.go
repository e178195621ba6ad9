package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shariahscreen/shariahscreen/internal/auth"
	ierr "github.com/shariahscreen/shariahscreen/internal/errors"
	"github.com/shariahscreen/shariahscreen/internal/types"
)

// AuthenticateMiddleware resolves the session token from the Authorization
// header and stores the resulting user ID on the request context. Requests
// without a valid session are rejected before reaching any handler.
func AuthenticateMiddleware(authenticator auth.SessionAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		userID, err := authenticator.CurrentUser(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
			return
		}

		ctx := types.SetUserID(c.Request.Context(), userID)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
