package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/alnnovate/academy/internal/interface/http"
)

// AuthModule serves signup, verification, password reset and sessions.
// Every route shares the per IP and path limiter.
type AuthModule struct {
	Handler *handlers.AuthHandler
	Limit   gin.HandlerFunc
}

func NewAuthModule(h *handlers.AuthHandler, limit gin.HandlerFunc) *AuthModule {
	return &AuthModule{Handler: h, Limit: limit}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/", m.Limit)
	{
		g.POST("/signup", m.Handler.Signup)
		g.POST("/verify", m.Handler.Verify)
		g.POST("/resendverification", m.Handler.ResendVerification)
		g.GET("/forgotpassword", m.Handler.ForgotPassword)
		g.POST("/verifyforgototp", m.Handler.VerifyForgotOTP)
		g.POST("/changepasswordwithotp", m.Handler.ChangePasswordWithOTP)
		g.POST("/login", m.Handler.Login)
	}
	rg.GET("/logout", m.Handler.Logout)
}
