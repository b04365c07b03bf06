package container

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/config"
	"github.com/alnnovate/academy/internal/application"
	repo "github.com/alnnovate/academy/internal/domain/repository"
	"github.com/alnnovate/academy/pkg/helpers"
	"github.com/alnnovate/academy/pkg/metrics"
)

// Repositories are the storage adapters the services run on. Index and Store
// are optional.
type Repositories struct {
	Accounts repo.AccountRepository
	Courses  repo.CourseRepository
	Exams    repo.ExamRepository
	Payments repo.PaymentRepository
	Audit    repo.AuditRepository
	Index    repo.StudentIndex
	Store    repo.ObjectStore
}

// Container holds the components built once at startup and shared by the
// router modules.
type Container struct {
	Config  *config.Config
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
	JWT     *helpers.JWTManager
	Cookies *helpers.Manager

	// Limiter backs the rate limiter; nil disables limiting.
	Limiter redis.Scripter

	Repos   Repositories
	Auth    *application.AuthService
	Catalog *application.CatalogService
	Exams   *application.ExamService
	Admin   *application.AdminService

	// Health checks dependencies for /healthz by name.
	Health map[string]func(ctx context.Context) error
}

// New wires the application services over the given repositories.
func New(cfg *config.Config, logger *logrus.Logger, m *metrics.Metrics, repos Repositories, notifier application.Notifier, limiter redis.Scripter) *Container {
	jwt := helpers.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL, cfg.RememberTTL)
	return &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: m,
		JWT:     jwt,
		Cookies: helpers.NewCookie(cfg.CookieDomain, !cfg.IsDevelopment()),
		Limiter: limiter,
		Repos:   repos,
		Auth:    application.NewAuthService(repos.Accounts, notifier, repos.Index, jwt, cfg.ResetOTPTTL, logger, m),
		Catalog: application.NewCatalogService(repos.Courses, repos.Accounts, repos.Store, logger, m),
		Exams:   application.NewExamService(repos.Exams, repos.Accounts, logger, m),
		Admin:   application.NewAdminService(repos.Accounts, repos.Courses, repos.Exams, repos.Payments, repos.Index, logger),
		Health:  map[string]func(ctx context.Context) error{},
	}
}

// AddHealthCheck registers a dependency check for /healthz.
func (c *Container) AddHealthCheck(name string, check func(ctx context.Context) error) {
	c.Health[name] = check
}
