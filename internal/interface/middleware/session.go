package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alnnovate/academy/internal/application"
	"github.com/alnnovate/academy/pkg/helpers"
	"github.com/alnnovate/academy/pkg/response"
)

const identityKey = "identity"

// SessionParser validates a session token.
type SessionParser interface {
	ParseSession(token string) (application.Identity, error)
}

// RequireSession reads the session cookie, validates it, and injects the
// caller identity into the context.
func RequireSession(p SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := helpers.SessionToken(c)
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "Unauthorized request")
			return
		}
		id, err := p.ParseSession(token)
		if err != nil {
			response.Abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		c.Set(identityKey, id)
		c.Next()
	}
}

// OptionalSession injects the identity when a valid cookie is present and
// otherwise lets the request through anonymously.
func OptionalSession(p SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := helpers.SessionToken(c); token != "" {
			if id, err := p.ParseSession(token); err == nil {
				c.Set(identityKey, id)
			}
		}
		c.Next()
	}
}

// IdentityFrom returns the identity set by RequireSession or OptionalSession.
func IdentityFrom(c *gin.Context) (application.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return application.Identity{}, false
	}
	id, ok := v.(application.Identity)
	return id, ok
}
