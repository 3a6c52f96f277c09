package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrisupport/complaint-service/internal/domain"
)

// StatusRepository reads the ticket-status and call-outcome catalogs.
// Both are seeded by migration; ticket operations never write them.
type StatusRepository interface {
	ListTicketStatuses(ctx context.Context) ([]domain.TicketStatus, error)
	ListCallOutcomes(ctx context.Context) ([]domain.CallOutcome, error)
}

type statusRepository struct {
	pool *pgxpool.Pool
}

// NewStatusRepository builds the repository.
func NewStatusRepository(pool *pgxpool.Pool) StatusRepository {
	return &statusRepository{pool: pool}
}

func (r *statusRepository) ListTicketStatuses(ctx context.Context) ([]domain.TicketStatus, error) {
	const query = `SELECT id, name FROM ticket_statuses ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TicketStatus
	for rows.Next() {
		var status domain.TicketStatus
		if err := rows.Scan(&status.ID, &status.Name); err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, rows.Err()
}

func (r *statusRepository) ListCallOutcomes(ctx context.Context) ([]domain.CallOutcome, error) {
	const query = `SELECT id, name FROM call_outcomes ORDER BY id`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.CallOutcome
	for rows.Next() {
		var outcome domain.CallOutcome
		if err := rows.Scan(&outcome.ID, &outcome.Name); err != nil {
			return nil, err
		}
		result = append(result, outcome)
	}
	return result, rows.Err()
}
