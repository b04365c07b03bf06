package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/alnnovate/academy/internal/domain/entity"
	handlers "github.com/alnnovate/academy/internal/interface/http"
	"github.com/alnnovate/academy/internal/interface/middleware"
)

// Sessions is what the modules need from the auth service.
type Sessions interface {
	middleware.SessionParser
	middleware.AccountLoader
}

type CourseModule struct {
	Handler  *handlers.CourseHandler
	Sessions Sessions
	Limit    gin.HandlerFunc
}

func NewCourseModule(h *handlers.CourseHandler, s Sessions, limit gin.HandlerFunc) *CourseModule {
	return &CourseModule{Handler: h, Sessions: s, Limit: limit}
}

func (m *CourseModule) Register(rg *gin.RouterGroup) {
	rg.GET("/courses", m.Handler.List)
	rg.GET("/courses/advance", m.Handler.List)
	rg.GET("/courses/:id", middleware.OptionalSession(m.Sessions), m.Handler.Get)

	auth := rg.Group("/")
	auth.Use(middleware.RequireSession(m.Sessions), m.Limit)
	{
		auth.POST("/courses/:id/enroll", m.Handler.Enroll)
		auth.GET("/mycourses", m.Handler.MyCourses)
		auth.GET("/mycourses/details", m.Handler.MyCourseDetails)
		auth.GET("/enrolledcourses", m.Handler.Enrolled)
		auth.GET("/playcourse/:id", m.Handler.Play)
	}

	authors := auth.Group("/", middleware.RequireRole(m.Sessions, entity.RoleInstructor, entity.RoleAdmin))
	{
		authors.POST("/publishcourse", m.Handler.Publish)
		authors.POST("/courses/thumbnail", m.Handler.UploadThumbnail)
	}
}
