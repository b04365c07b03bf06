package repository

import (
	"context"

	"github.com/alnnovate/academy/internal/domain/entity"
)

type PaymentRepository interface {
	Create(ctx context.Context, p *entity.Payment) error
	// List returns matching rows, newest first.
	List(ctx context.Context, f entity.PaymentFilter) ([]entity.Payment, error)
	Totals(ctx context.Context) ([]entity.PaymentTotals, error)
}

type AuditRepository interface {
	Insert(ctx context.Context, l *entity.AuditLog) error
}
