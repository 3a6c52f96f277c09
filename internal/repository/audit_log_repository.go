package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrisupport/complaint-service/internal/domain"
)

// AuditLogRepository appends write-once audit entries.
type AuditLogRepository interface {
	Create(ctx context.Context, entry *domain.AuditLog) error
}

type auditLogRepository struct {
	pool *pgxpool.Pool
}

// NewAuditLogRepository builds the repository.
func NewAuditLogRepository(pool *pgxpool.Pool) AuditLogRepository {
	return &auditLogRepository{pool: pool}
}

func (r *auditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	const query = `
        INSERT INTO audit_logs (user_id, action, entity, entity_id, old_values, new_values)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.UserID,
		entry.Action,
		entry.Entity,
		entry.EntityID,
		entry.OldValues,
		entry.NewValues,
	).Scan(&entry.ID, &entry.CreatedAt)
}
