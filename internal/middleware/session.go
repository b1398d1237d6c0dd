package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
	"github.com/Mohd-Imad/burial-records-management-FE/pkg/response"
)

// Authenticator reports whether an operator is signed in.
type Authenticator interface {
	Authenticated(ctx context.Context) bool
}

// RequireSession rejects requests while no token is stored. The response
// carries the login route for the UI to navigate to.
func RequireSession(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.Authenticated(c.Request.Context()) {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
