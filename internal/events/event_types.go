package events

import (
	"time"

	"github.com/agrisupport/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventCallLogged             EventType = "call_logged"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id"`
	ActorID   int64       `json:"actor_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	TicketNumber string                `json:"ticket_number"`
	ZoneID       int64                 `json:"zone_id"`
	BranchID     int64                 `json:"branch_id"`
	FarmerID     int64                 `json:"farmer_id"`
	Priority     domain.TicketPriority `json:"priority"`
	SLADeadline  time.Time             `json:"sla_deadline"`
	Title        string                `json:"title"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.StatusName `json:"old_status"`
	NewStatus domain.StatusName `json:"new_status"`
	Remarks   string            `json:"remarks,omitempty"`
}

// ComplaintAssignedPayload payload.
type ComplaintAssignedPayload struct {
	OldAssignee *int64 `json:"old_assignee,omitempty"`
	NewAssignee int64  `json:"new_assignee"`
}

// CallLoggedPayload payload.
type CallLoggedPayload struct {
	CallLogID        int64              `json:"call_log_id"`
	Outcome          domain.OutcomeName `json:"outcome"`
	NextFollowUpDate *time.Time         `json:"next_follow_up_date,omitempty"`
}
