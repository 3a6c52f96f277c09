package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrisupport/complaint-service/internal/domain"
)

// CallLogRepository persists the append-only call trail. There is no
// update or delete; entries are immutable once written.
type CallLogRepository interface {
	Create(ctx context.Context, log *domain.CallLog) error
	ListByTicket(ctx context.Context, ticketID int64, limit, offset int) ([]domain.CallLog, error)
}

type callLogRepository struct {
	pool *pgxpool.Pool
}

// NewCallLogRepository builds the repository.
func NewCallLogRepository(pool *pgxpool.Pool) CallLogRepository {
	return &callLogRepository{pool: pool}
}

func (r *callLogRepository) Create(ctx context.Context, log *domain.CallLog) error {
	const query = `
        INSERT INTO call_logs (ticket_id, called_by, outcome_id, duration_seconds, remarks,
            next_follow_up_date, resulting_status_id, resulting_status_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		log.TicketID,
		log.CalledBy,
		log.Outcome.ID,
		log.DurationSeconds,
		log.Remarks,
		log.NextFollowUpDate,
		log.ResultingStatusID,
		log.ResultingStatusDate,
	).Scan(&log.ID, &log.CreatedAt)
}

func (r *callLogRepository) ListByTicket(ctx context.Context, ticketID int64, limit, offset int) ([]domain.CallLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT l.id, l.ticket_id, l.called_by, l.outcome_id, o.name, l.duration_seconds,
               l.remarks, l.next_follow_up_date, l.resulting_status_id, l.resulting_status_date, l.created_at
        FROM call_logs l JOIN call_outcomes o ON o.id = l.outcome_id
        WHERE l.ticket_id=$1
        ORDER BY l.created_at DESC
        LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ticketID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CallLog
	for rows.Next() {
		var log domain.CallLog
		if err := rows.Scan(
			&log.ID,
			&log.TicketID,
			&log.CalledBy,
			&log.Outcome.ID,
			&log.Outcome.Name,
			&log.DurationSeconds,
			&log.Remarks,
			&log.NextFollowUpDate,
			&log.ResultingStatusID,
			&log.ResultingStatusDate,
			&log.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, log)
	}
	return result, rows.Err()
}
