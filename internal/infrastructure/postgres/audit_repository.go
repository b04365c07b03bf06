package postgres

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alnnovate/academy/internal/domain/entity"
	"github.com/alnnovate/academy/internal/domain/repository"
)

type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) Insert(ctx context.Context, l *entity.AuditLog) error {
	meta := []byte("{}")
	if len(l.Metadata) > 0 {
		b, err := json.Marshal(l.Metadata)
		if err != nil {
			return err
		}
		meta = b
	}
	row := r.pool.QueryRow(ctx, `
		INSERT INTO audit_logs (account_id, email, action, ip, user_agent, metadata)
		VALUES (NULLIF($1, ''), NULLIF($2, ''), $3, $4, $5, $6::jsonb)
		RETURNING id, created_at
	`, l.AccountID, l.Email, l.Action, l.IP, l.UserAgent, string(meta))

	return row.Scan(&l.ID, &l.CreatedAt)
}

var _ repository.AuditRepository = (*AuditRepository)(nil)
