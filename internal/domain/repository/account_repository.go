package repository

import (
	"context"
	"time"

	"github.com/alnnovate/academy/internal/domain/entity"
)

// AccountRepository persists accounts. Emails are expected already normalized.
type AccountRepository interface {
	Create(ctx context.Context, a *entity.Account) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByEmail(ctx context.Context, email string) (*entity.Account, error)

	// MarkVerified sets verified and clears the verification code in one update.
	MarkVerified(ctx context.Context, id string) error
	SetVerificationCode(ctx context.Context, id, code string) error
	// SetResetOTP stores code and expiry together.
	SetResetOTP(ctx context.Context, id, code string, expires time.Time) error
	// UpdatePassword stores the hash and clears any pending reset code.
	UpdatePassword(ctx context.Context, id, hash string) error

	// AddEnrolledCourse adds if absent; added is false when already present.
	AddEnrolledCourse(ctx context.Context, id, courseID string) (added bool, err error)
	AddCreatedCourse(ctx context.Context, id, courseID string) error
	AddCreatedExam(ctx context.Context, id, examID string) error
	RemoveCreatedExam(ctx context.Context, id, examID string) error
	// AddAppliedExam adds if no application for the exam exists yet.
	AddAppliedExam(ctx context.Context, id string, ae entity.AppliedExam) (added bool, err error)

	ListByRole(ctx context.Context, role entity.Role, page entity.Page) ([]entity.Account, int64, error)
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}
