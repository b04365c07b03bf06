package router

import (
	"github.com/alnnovate/academy/internal/container"
	handlers "github.com/alnnovate/academy/internal/interface/http"
	"github.com/alnnovate/academy/internal/interface/middleware"
	"github.com/alnnovate/academy/internal/router/modules"
)

// InitModules builds the handlers from the container and registers every
// feature module. Call once during startup, before RegisterAll.
func InitModules(r *Registry, c *container.Container) {
	cfg := c.Config
	audit := handlers.NewAuditor(c.Repos.Audit, c.Logger)

	authLimit := middleware.RateLimit(c.Limiter, c.Metrics, cfg.AuthRateLimitMax, cfg.RateLimitWindow, middleware.KeyByIPAndPath(), nil)
	accountLimit := middleware.RateLimit(c.Limiter, c.Metrics, cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByAccount(), nil)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(c.Auth, c.Cookies, audit, c.Logger), authLimit))
	r.Add(modules.NewCourseModule(handlers.NewCourseHandler(c.Catalog, c.Logger), c.Auth, accountLimit))
	r.Add(modules.NewExamModule(handlers.NewExamHandler(c.Exams, c.Logger), c.Auth, accountLimit))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(c.Admin, audit, c.Logger), c.Auth, accountLimit))

	m := c.Metrics
	if !cfg.MetricsEnabled {
		m = nil
	}
	r.AddRoot(modules.NewSystemModule(handlers.NewHealthHandler(c.Health), m))
}
