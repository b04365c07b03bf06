package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/alnnovate/academy/config"
	"github.com/alnnovate/academy/internal/domain/entity"
	"github.com/alnnovate/academy/internal/domain/repository"
	"github.com/alnnovate/academy/internal/infrastructure/mongodb"
	pginfra "github.com/alnnovate/academy/internal/infrastructure/postgres"
	"github.com/alnnovate/academy/pkg/helpers"
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	mdb, err := mongodb.Connect(ctx, cfg.MongoURL, cfg.MongoDB, cfg.MongoTimeout, cfg.MongoMaxPoolSize)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = mdb.Close(context.Background()) }()

	pool, err := pginfra.OpenLedger(ctx, pginfra.LedgerOptionsFrom(cfg))
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	accounts := mongodb.NewAccountRepository(mdb)
	courses := mongodb.NewCourseRepository(mdb)
	payments := pginfra.NewPaymentRepository(pool)

	email := getenv("SEED_ADMIN_EMAIL", "admin@alnnovate.dev")
	password := getenv("SEED_ADMIN_PASSWORD", "password123")

	admin, err := accounts.GetByEmail(ctx, email)
	switch {
	case err == nil:
		fmt.Printf("admin exists: id=%s email=%s\n", admin.ID, admin.Email)
	case errors.Is(err, repository.ErrNotFound):
		hash, err := helpers.HashPassword(password)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		now := time.Now().UTC()
		admin = &entity.Account{
			Email:        email,
			PasswordHash: hash,
			FullName:     "Academy Admin",
			Role:         entity.RoleAdmin,
			AcceptTerms:  true,
			Verified:     true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := accounts.Create(ctx, admin); err != nil {
			log.Fatalf("failed to seed admin: %v", err)
		}
		fmt.Printf("seeded admin: id=%s email=%s password=%s\n", admin.ID, email, password)
	default:
		log.Fatalf("failed to look up admin: %v", err)
	}

	if len(admin.CreatedCourses) == 0 {
		now := time.Now().UTC()
		course := &entity.Course{
			Title:       "Full Stack Web Development",
			Level:       "Beginner",
			Category:    "Web Development",
			Language:    "English",
			Duration:    40,
			Price:       4999,
			Description: "Build and ship a complete web application from scratch.",
			Tags:        []string{"web", "javascript", "fullstack"},
			Thumbnail:   cfg.LogoURL,
			Videos: []entity.Video{{
				Name:        "Welcome",
				Description: "Course overview",
				URL:         "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			}},
			InstructorID: admin.ID,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := courses.Create(ctx, course); err != nil {
			log.Fatalf("failed to seed course: %v", err)
		}
		if err := accounts.AddCreatedCourse(ctx, admin.ID, course.ID); err != nil {
			log.Fatalf("failed to link course: %v", err)
		}
		fmt.Printf("seeded course: id=%s title=%q\n", course.ID, course.Title)
	}

	existing, err := payments.List(ctx, entity.PaymentFilter{})
	if err != nil {
		log.Fatalf("failed to list payments: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("payments already seeded (%d rows)\n", len(existing))
		return
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	demo := []entity.Payment{
		{StudentName: "Aarav Sharma", StudentEmail: "aarav@example.com", CourseTitle: "Full Stack Web Development", Amount: 4999, Status: entity.PaymentPaid, PaidOn: today},
		{StudentName: "Diya Patel", StudentEmail: "diya@example.com", CourseTitle: "Full Stack Web Development", Amount: 2500, Status: entity.PaymentPartial, PaidOn: today.AddDate(0, 0, -1)},
		{StudentName: "Kabir Singh", StudentEmail: "kabir@example.com", CourseTitle: "Full Stack Web Development", Amount: 4999, Status: entity.PaymentPending, PaidOn: today.AddDate(0, 0, -3)},
	}
	for i := range demo {
		demo[i].Currency = "INR"
		if err := payments.Create(ctx, &demo[i]); err != nil {
			log.Fatalf("failed to seed payment: %v", err)
		}
	}
	fmt.Printf("seeded %d payments\n", len(demo))
}
