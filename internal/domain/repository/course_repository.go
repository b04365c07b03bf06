package repository

import (
	"context"

	"github.com/alnnovate/academy/internal/domain/entity"
)

type CourseRepository interface {
	Create(ctx context.Context, c *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	// List returns one page sorted by createdAt desc and the total match count.
	List(ctx context.Context, f entity.CourseFilter, page entity.Page) ([]entity.Course, int64, error)
	ListByIDs(ctx context.Context, ids []string) ([]entity.Course, error)
	Count(ctx context.Context) (int64, error)
}

type ExamRepository interface {
	Create(ctx context.Context, e *entity.Exam) error
	GetByID(ctx context.Context, id string) (*entity.Exam, error)
	List(ctx context.Context) ([]entity.Exam, error)
	ListByIDs(ctx context.Context, ids []string) ([]entity.Exam, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
