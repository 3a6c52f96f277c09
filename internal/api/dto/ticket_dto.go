package dto

import (
	"time"

	"github.com/agrisupport/complaint-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    string                `json:"category"`
	Priority    domain.TicketPriority `json:"priority"`
	FarmerID    int64                 `json:"farmer_id"`
	EquipmentID *int64                `json:"equipment_id"`
}

// ChangeStatusRequest payload.
type ChangeStatusRequest struct {
	Status  string `json:"status"`
	Remarks string `json:"remarks"`
}

// AssignTicketRequest payload.
type AssignTicketRequest struct {
	AssigneeID int64 `json:"assignee_id"`
}

// UpdateTicketRequest payload; nil fields are not touched.
type UpdateTicketRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Category    *string                `json:"category"`
	Priority    *domain.TicketPriority `json:"priority"`
	Status      *string                `json:"status"`
}

// RecordCallLogRequest payload.
type RecordCallLogRequest struct {
	Outcome          string     `json:"outcome"`
	DurationSeconds  *int       `json:"duration_seconds"`
	Remarks          *string    `json:"remarks"`
	NextFollowUpDate *time.Time `json:"next_follow_up_date"`
}

// TicketSummary response.
type TicketSummary struct {
	ID           int64                 `json:"id"`
	TicketNumber string                `json:"ticket_number"`
	Title        string                `json:"title"`
	Category     string                `json:"category"`
	Priority     domain.TicketPriority `json:"priority"`
	Status       string                `json:"status"`
	FarmerID     int64                 `json:"farmer_id"`
	AssignedTo   *int64                `json:"assigned_to"`
	ZoneID       int64                 `json:"zone_id"`
	BranchID     int64                 `json:"branch_id"`
	LineID       int64                 `json:"line_id"`
	SLADeadline  time.Time             `json:"sla_deadline"`
	CreatedAt    time.Time             `json:"created_at"`
}

// TicketDetailResponse provides full ticket info.
type TicketDetailResponse struct {
	ID           int64                 `json:"id"`
	TicketNumber string                `json:"ticket_number"`
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Category     string                `json:"category"`
	Priority     domain.TicketPriority `json:"priority"`
	Status       string                `json:"status"`
	FarmerID     int64                 `json:"farmer_id"`
	EquipmentID  *int64                `json:"equipment_id"`
	AssignedTo   *int64                `json:"assigned_to"`
	ZoneID       int64                 `json:"zone_id"`
	BranchID     int64                 `json:"branch_id"`
	LineID       int64                 `json:"line_id"`
	SLADeadline  time.Time             `json:"sla_deadline"`
	ResolvedAt   *time.Time            `json:"resolved_at"`
	ClosedAt     *time.Time            `json:"closed_at"`
	CreatedBy    int64                 `json:"created_by"`
	IsActive     bool                  `json:"is_active"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	CallLogs     []CallLogResponse     `json:"call_logs"`
}

// CallLogResponse represents one trail entry.
type CallLogResponse struct {
	ID                  int64      `json:"id"`
	CalledBy            int64      `json:"called_by"`
	Outcome             string     `json:"outcome"`
	DurationSeconds     *int       `json:"duration_seconds"`
	Remarks             *string    `json:"remarks"`
	NextFollowUpDate    *time.Time `json:"next_follow_up_date"`
	ResultingStatusID   *int64     `json:"resulting_status_id"`
	ResultingStatusDate *time.Time `json:"resulting_status_date"`
	CreatedAt           time.Time  `json:"created_at"`
}
