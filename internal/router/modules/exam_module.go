package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/alnnovate/academy/internal/interface/http"
	"github.com/alnnovate/academy/internal/interface/middleware"
)

type ExamModule struct {
	Handler  *handlers.ExamHandler
	Sessions Sessions
	Limit    gin.HandlerFunc
}

func NewExamModule(h *handlers.ExamHandler, s Sessions, limit gin.HandlerFunc) *ExamModule {
	return &ExamModule{Handler: h, Sessions: s, Limit: limit}
}

func (m *ExamModule) Register(rg *gin.RouterGroup) {
	rg.GET("/exams", m.Handler.List)
	rg.GET("/getexamdetails", m.Handler.Details)

	auth := rg.Group("/")
	auth.Use(middleware.RequireSession(m.Sessions), m.Limit)
	{
		auth.POST("/addexam", m.Handler.Add)
		auth.GET("/myexams", m.Handler.Mine)
		auth.POST("/applyexam", m.Handler.Apply)
		auth.DELETE("/exams/:id", m.Handler.Delete)
	}
}
