package domain

import "time"

// TicketStatus is the catalog entry a ticket's status id points at.
// The id is what gets stored; the name is resolved at read time so the
// catalog can be renamed without a data migration.
type TicketStatus struct {
	ID   int64
	Name StatusName
}

// StatusName enumerates the canonical lifecycle states.
type StatusName string

const (
	StatusOpen     StatusName = "open"
	StatusProgress StatusName = "progress"
	StatusClosed   StatusName = "closed"
	StatusReopen   StatusName = "reopen"
)

// TicketPriority enumerates SLA urgency.
type TicketPriority string

const (
	TicketPriorityNormal   TicketPriority = "normal"
	TicketPriorityUrgent   TicketPriority = "urgent"
	TicketPriorityCritical TicketPriority = "critical"
)

// ValidPriority reports whether p is one of the known priorities.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case TicketPriorityNormal, TicketPriorityUrgent, TicketPriorityCritical:
		return true
	}
	return false
}

// Ticket is the aggregate for farmer service complaints.
//
// ZoneID/BranchID/LineID are snapshotted from the farmer at creation time
// and never edited afterwards; they reflect the farmer's org placement when
// the complaint was raised, not where the farmer is today.
type Ticket struct {
	ID           int64
	TicketNumber string
	Title        string
	Description  string
	Category     string
	Priority     TicketPriority
	Status       TicketStatus
	FarmerID     int64
	EquipmentID  *int64
	AssignedTo   *int64
	ZoneID       int64
	BranchID     int64
	LineID       int64
	SLADeadline  time.Time
	ResolvedAt   *time.Time
	ClosedAt     *time.Time
	CreatedBy    int64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsTerminal reports whether the ticket sits in its terminal status.
func (t *Ticket) IsTerminal() bool {
	return t.Status.Name == StatusClosed
}
