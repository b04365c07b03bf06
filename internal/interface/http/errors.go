package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/internal/application"
	"github.com/alnnovate/academy/internal/interface/middleware"
	"github.com/alnnovate/academy/pkg/helpers"
	"github.com/alnnovate/academy/pkg/response"
)

// statusFor maps an application error kind to its HTTP status.
func statusFor(k application.Kind) int {
	switch k {
	case application.KindInvalidInput, application.KindInvalidCode,
		application.KindExpired, application.KindNoOtpPending, application.KindAlreadyVerified:
		return http.StatusBadRequest
	case application.KindNotFound:
		return http.StatusNotFound
	case application.KindConflict:
		return http.StatusConflict
	case application.KindUnauthorized, application.KindInvalidCredentials:
		return http.StatusUnauthorized
	case application.KindForbidden:
		return http.StatusForbidden
	case application.KindEmailDelivery:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fail writes the error envelope for a service error. Internal and delivery
// failures are logged with their cause; clients only see the message.
func fail(c *gin.Context, logger logrus.FieldLogger, err error) {
	kind := application.KindOf(err)
	status := statusFor(kind)

	msg := "Internal server error"
	var ae *application.Error
	if errors.As(err, &ae) && kind != application.KindInternal {
		msg = ae.Message
	}

	if status >= http.StatusInternalServerError && logger != nil {
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"path":       c.FullPath(),
			"kind":       kind.String(),
		})
	}
	response.Error[any](c, status, msg, nil)
}

func invalidPayload(c *gin.Context, details map[string]string) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", details)
}

// identity returns the session identity set by RequireSession, answering 401
// itself when it is missing.
func identity(c *gin.Context) (application.Identity, bool) {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Error[any](c, http.StatusUnauthorized, "Unauthorized request", nil)
	}
	return id, ok
}
