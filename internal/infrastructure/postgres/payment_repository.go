package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alnnovate/academy/internal/domain/entity"
	"github.com/alnnovate/academy/internal/domain/repository"
)

type PaymentRepository struct {
	pool *pgxpool.Pool
}

func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

func (r *PaymentRepository) Create(ctx context.Context, p *entity.Payment) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payments (student_name, student_email, course_title, amount, currency, paid_on, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`, p.StudentName, p.StudentEmail, p.CourseTitle, p.Amount, p.Currency, p.PaidOn, string(p.Status))

	return row.Scan(&p.ID, &p.CreatedAt)
}

// paymentListQuery builds the filtered ledger query. Placeholders are numbered
// in the order the filters are appended.
func paymentListQuery(f entity.PaymentFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	if f.Course != "" {
		args = append(args, f.Course)
		where = append(where, fmt.Sprintf("course_title = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Date != nil {
		args = append(args, *f.Date)
		where = append(where, fmt.Sprintf("paid_on = $%d::date", len(args)))
	}

	q := `SELECT id, student_name, student_email, course_title, amount, currency, paid_on, status, created_at FROM payments`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY paid_on DESC, created_at DESC"
	return q, args
}

func (r *PaymentRepository) List(ctx context.Context, f entity.PaymentFilter) ([]entity.Payment, error) {
	q, args := paymentListQuery(f)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []entity.Payment{}
	for rows.Next() {
		var (
			p      entity.Payment
			status string
		)
		if err := rows.Scan(&p.ID, &p.StudentName, &p.StudentEmail, &p.CourseTitle, &p.Amount,
			&p.Currency, &p.PaidOn, &status, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Status = entity.PaymentStatus(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PaymentRepository) Totals(ctx context.Context) ([]entity.PaymentTotals, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(amount), 0)
		FROM payments
		GROUP BY status
		ORDER BY status
	`)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.PaymentTotals, error) {
		var (
			t      entity.PaymentTotals
			status string
		)
		err := row.Scan(&status, &t.Count, &t.Amount)
		t.Status = entity.PaymentStatus(status)
		return t, err
	})
}

var _ repository.PaymentRepository = (*PaymentRepository)(nil)
