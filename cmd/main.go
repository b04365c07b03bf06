package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/alnnovate/academy/config"
	"github.com/alnnovate/academy/internal/application"
	"github.com/alnnovate/academy/internal/container"
	"github.com/alnnovate/academy/internal/infrastructure/gcs"
	"github.com/alnnovate/academy/internal/infrastructure/mongodb"
	pginfra "github.com/alnnovate/academy/internal/infrastructure/postgres"
	"github.com/alnnovate/academy/internal/infrastructure/search"
	"github.com/alnnovate/academy/internal/interface/middleware"
	"github.com/alnnovate/academy/internal/router"
	"github.com/alnnovate/academy/pkg/helpers"
	"github.com/alnnovate/academy/pkg/mailer"
	mailtpl "github.com/alnnovate/academy/pkg/mailer/templates"
	"github.com/alnnovate/academy/pkg/metrics"
	"github.com/alnnovate/academy/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// MongoDB: accounts, courses, exams
	mdb, err := mongodb.Connect(ctx, cfg.MongoURL, cfg.MongoDB, cfg.MongoTimeout, cfg.MongoMaxPoolSize)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = mdb.Close(context.Background()) }()
	if err := mdb.EnsureIndexes(ctx); err != nil {
		log.Fatalf("failed to create mongodb indexes: %v", err)
	}

	// Postgres: payments ledger and audit log
	pool, err := pginfra.OpenLedger(ctx, pginfra.LedgerOptionsFrom(cfg))
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	// Run migrations using database/sql with pgx stdlib
	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis only backs the rate limiter; without it requests are not limited.
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	var limiter redis.Scripter
	if err := helpers.PingRedis(ctx, rdb); err != nil {
		helpers.LogError(logger, "redis unavailable, rate limiting disabled", err, nil)
	} else {
		limiter = rdb
	}

	notifier, closeMail := buildNotifier(cfg, logger)
	defer closeMail()

	repos := container.Repositories{
		Accounts: mongodb.NewAccountRepository(mdb),
		Courses:  mongodb.NewCourseRepository(mdb),
		Exams:    mongodb.NewExamRepository(mdb),
		Payments: pginfra.NewPaymentRepository(pool),
		Audit:    pginfra.NewAuditRepository(pool),
	}

	// Elasticsearch (optional): student search
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewSearchClient(helpers.SearchClientOptions{
			Addrs:      addrs,
			Username:   cfg.ElasticsearchUser,
			Password:   cfg.ElasticsearchPass,
			MaxRetries: cfg.ESMaxRetries,
		})
		if err != nil {
			log.Fatalf("failed to init elasticsearch client: %v", err)
		}
		idx := search.NewStudentIndex(es, cfg.ESStudentsIndex)
		if err := idx.EnsureIndex(ctx); err != nil {
			helpers.LogError(logger, "ensure students index", err, nil)
		}
		repos.Index = idx
	}

	// GCS (optional): course thumbnails
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		repos.Store = gcs.NewObjectStore(gcsClient, cfg.GCSBucket)
	}

	m := metrics.New()
	c := container.New(cfg, logger, m, repos, notifier, limiter)
	c.AddHealthCheck("mongodb", mdb.Ping)
	c.AddHealthCheck("postgres", pool.Ping)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics(m))
	}
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	allow := middleware.AllowPaths("/healthz", "/metrics")
	if cfg.RateLimitBypassPrivate {
		allow = middleware.AnyAllow(allow, middleware.AllowPrivateIP())
	}
	r.Use(middleware.RateLimit(limiter, m, cfg.RateLimitMax, cfg.RateLimitWindow, middleware.KeyByIP(), allow))

	// Registry: /api modules plus /healthz and /metrics
	reg := router.NewRegistry(r)
	router.InitModules(reg, c)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// buildNotifier picks the email transport from MAIL_TRANSPORT. The returned
// func releases the transport's connections.
func buildNotifier(cfg *config.Config, logger *logrus.Logger) (application.Notifier, func()) {
	brand := mailtpl.BrandFromConfig(cfg)
	switch cfg.MailTransport {
	case "queue":
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		logger.WithField("queue", cfg.RabbitMQEmailQueue).Info("emails go through the queue")
		return mailer.NewNotifier(mailer.QueueSender{Publisher: pub}, brand), pub.Close
	case "mailgun":
		mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
		if !mg.Configured() {
			log.Fatal("MAIL_TRANSPORT=mailgun but Mailgun is not configured")
		}
		return mailer.NewNotifier(mailer.DirectSender{Deliverer: mg}, brand), func() {}
	default:
		logger.Warn("MAIL_TRANSPORT=log; emails are only logged")
		return mailer.NewNotifier(mailer.LogSender{Logger: logger}, brand), func() {}
	}
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	// Open sql DB via pgx stdlib
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
