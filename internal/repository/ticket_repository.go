package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrisupport/complaint-service/internal/domain"
)

// TicketFilter captures search parameters for ticket listings. The access
// layer pins ZoneID for scoped actors before the filter reaches storage,
// and the service layer resolves StatusNames into StatusIDs; SQL only ever
// sees ids.
type TicketFilter struct {
	ZoneID      *int64
	BranchID    *int64
	LineID      *int64
	FarmerID    *int64
	EquipmentID *int64
	AssignedTo  *int64
	StatusNames []domain.StatusName
	StatusIDs   []int64
	Priorities  []domain.TicketPriority
	SearchTerm  *string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	ActiveOnly  bool
	Limit       int
	Offset      int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	GetByNumber(ctx context.Context, number string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates the repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `t.id, t.ticket_number, t.title, t.description, t.category, t.priority,
               t.status_id, s.name, t.farmer_id, t.equipment_id, t.assigned_to,
               t.zone_id, t.branch_id, t.line_id, t.sla_deadline, t.resolved_at, t.closed_at,
               t.created_by, t.is_active, t.created_at, t.updated_at`

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (ticket_number, title, description, category, priority, status_id,
            farmer_id, equipment_id, assigned_to, zone_id, branch_id, line_id,
            sla_deadline, created_by, is_active)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketNumber,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status.ID,
		ticket.FarmerID,
		ticket.EquipmentID,
		ticket.AssignedTo,
		ticket.ZoneID,
		ticket.BranchID,
		ticket.LineID,
		ticket.SLADeadline,
		ticket.CreatedBy,
		ticket.IsActive,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET title=$1, description=$2, category=$3, priority=$4, status_id=$5,
            assigned_to=$6, resolved_at=$7, closed_at=$8, is_active=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.Status.ID,
		ticket.AssignedTo,
		ticket.ResolvedAt,
		ticket.ClosedAt,
		ticket.IsActive,
		ticket.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets t JOIN ticket_statuses s ON s.id = t.status_id WHERE t.id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByNumber(ctx context.Context, number string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets t JOIN ticket_statuses s ON s.id = t.status_id WHERE t.ticket_number=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, number)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&ticket.ID,
		&ticket.TicketNumber,
		&ticket.Title,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.Status.ID,
		&ticket.Status.Name,
		&ticket.FarmerID,
		&ticket.EquipmentID,
		&ticket.AssignedTo,
		&ticket.ZoneID,
		&ticket.BranchID,
		&ticket.LineID,
		&ticket.SLADeadline,
		&ticket.ResolvedAt,
		&ticket.ClosedAt,
		&ticket.CreatedBy,
		&ticket.IsActive,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	base := fmt.Sprintf(`SELECT %s FROM tickets t JOIN ticket_statuses s ON s.id = t.status_id`, ticketColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ZoneID != nil {
		args = append(args, *filter.ZoneID)
		clauses = append(clauses, fmt.Sprintf("t.zone_id=$%d", len(args)))
	}
	if filter.BranchID != nil {
		args = append(args, *filter.BranchID)
		clauses = append(clauses, fmt.Sprintf("t.branch_id=$%d", len(args)))
	}
	if filter.LineID != nil {
		args = append(args, *filter.LineID)
		clauses = append(clauses, fmt.Sprintf("t.line_id=$%d", len(args)))
	}
	if filter.FarmerID != nil {
		args = append(args, *filter.FarmerID)
		clauses = append(clauses, fmt.Sprintf("t.farmer_id=$%d", len(args)))
	}
	if filter.EquipmentID != nil {
		args = append(args, *filter.EquipmentID)
		clauses = append(clauses, fmt.Sprintf("t.equipment_id=$%d", len(args)))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("t.assigned_to=$%d", len(args)))
	}
	if len(filter.StatusIDs) > 0 {
		placeholders := make([]string, len(filter.StatusIDs))
		for i, id := range filter.StatusIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.status_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("t.priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("t.created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("t.created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(t.title) LIKE %s OR LOWER(t.description) LIKE %s OR LOWER(t.ticket_number) LIKE %s)", placeholder, placeholder, placeholder))
	}
	if filter.ActiveOnly {
		clauses = append(clauses, "t.is_active = TRUE")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY t.created_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.TicketNumber,
			&ticket.Title,
			&ticket.Description,
			&ticket.Category,
			&ticket.Priority,
			&ticket.Status.ID,
			&ticket.Status.Name,
			&ticket.FarmerID,
			&ticket.EquipmentID,
			&ticket.AssignedTo,
			&ticket.ZoneID,
			&ticket.BranchID,
			&ticket.LineID,
			&ticket.SLADeadline,
			&ticket.ResolvedAt,
			&ticket.ClosedAt,
			&ticket.CreatedBy,
			&ticket.IsActive,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
