package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/alnnovate/academy/internal/domain/entity"
	handlers "github.com/alnnovate/academy/internal/interface/http"
	"github.com/alnnovate/academy/internal/interface/middleware"
)

// AdminModule serves /api/admin; every route requires the admin role.
type AdminModule struct {
	Handler  *handlers.AdminHandler
	Sessions Sessions
	Limit    gin.HandlerFunc
}

func NewAdminModule(h *handlers.AdminHandler, s Sessions, limit gin.HandlerFunc) *AdminModule {
	return &AdminModule{Handler: h, Sessions: s, Limit: limit}
}

func (m *AdminModule) Register(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	admin.Use(
		middleware.RequireSession(m.Sessions),
		m.Limit,
		middleware.RequireRole(m.Sessions, entity.RoleAdmin),
	)
	{
		admin.GET("/dashboard", m.Handler.Dashboard)
		admin.GET("/students", m.Handler.Students)
		admin.GET("/students/search", m.Handler.SearchStudents)
		admin.POST("/payments", m.Handler.RecordPayment)
		admin.GET("/payments", m.Handler.Payments)
		admin.GET("/payments/export", m.Handler.ExportPayments)
	}
}
