package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/alnnovate/academy/internal/interface/http"
	"github.com/alnnovate/academy/pkg/metrics"
)

// SystemModule exposes /healthz and, when metrics are enabled, /metrics.
type SystemModule struct {
	Health  *handlers.HealthHandler
	Metrics *metrics.Metrics
}

func NewSystemModule(h *handlers.HealthHandler, m *metrics.Metrics) *SystemModule {
	return &SystemModule{Health: h, Metrics: m}
}

func (m *SystemModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Health.Health)
	if m.Metrics != nil {
		rg.GET("/metrics", gin.WrapH(m.Metrics.Handler()))
	}
}
