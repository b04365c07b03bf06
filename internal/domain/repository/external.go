package repository

import (
	"context"
	"io"

	"github.com/alnnovate/academy/internal/domain/entity"
)

// StudentHit is one search result from the student index.
type StudentHit struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
	Role     string `json:"role"`
	Verified bool   `json:"verified"`
}

// StudentIndex is the full-text index over accounts.
type StudentIndex interface {
	Index(ctx context.Context, a *entity.Account) error
	Search(ctx context.Context, q string, size int) ([]StudentHit, error)
}

// ObjectStore stores uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}
