package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alnnovate/academy/internal/application"
	"github.com/alnnovate/academy/internal/domain/entity"
	"github.com/alnnovate/academy/pkg/response"
)

// AccountLoader resolves the account behind an identity.
type AccountLoader interface {
	Account(ctx context.Context, id string) (*entity.Account, error)
}

// RequireRole must run after RequireSession. It loads the caller's account
// and rejects it unless it holds one of roles.
func RequireRole(accounts AccountLoader, roles ...entity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, "Unauthorized request")
			return
		}
		acc, err := accounts.Account(c.Request.Context(), id.AccountID)
		if err != nil {
			if errors.Is(err, application.ErrNotFound) {
				response.Abort(c, http.StatusUnauthorized, "Unauthorized request")
				return
			}
			response.Abort(c, http.StatusInternalServerError, "Internal server error")
			return
		}
		for _, r := range roles {
			if acc.Role == r {
				c.Next()
				return
			}
		}
		response.Abort(c, http.StatusForbidden, "Forbidden")
	}
}
