package sla

import (
	"time"

	"github.com/agrisupport/complaint-service/internal/domain"
)

// ComplianceBucket classifies a ticket against its SLA deadline.
type ComplianceBucket string

const (
	BucketCompliant ComplianceBucket = "compliant"
	BucketBreached  ComplianceBucket = "breached"
	BucketPending   ComplianceBucket = "pending"
)

// Offsets maps each priority to its resolution window. Magnitudes come
// from configuration, never from callers.
type Offsets struct {
	Critical time.Duration
	Urgent   time.Duration
	Normal   time.Duration
}

// Calculator computes SLA deadlines and breach state.
type Calculator struct {
	offsets Offsets
}

// NewCalculator builds a calculator with the configured offsets.
func NewCalculator(offsets Offsets) *Calculator {
	return &Calculator{offsets: offsets}
}

// Offset returns the resolution window for a priority.
func (c *Calculator) Offset(priority domain.TicketPriority) time.Duration {
	switch priority {
	case domain.TicketPriorityCritical:
		return c.offsets.Critical
	case domain.TicketPriorityUrgent:
		return c.offsets.Urgent
	default:
		return c.offsets.Normal
	}
}

// ComputeDeadline returns the absolute deadline for a ticket created at
// createdAt: createdAt + offset(priority).
func (c *Calculator) ComputeDeadline(priority domain.TicketPriority, createdAt time.Time) time.Time {
	return createdAt.Add(c.Offset(priority))
}

// IsBreached reports whether the ticket is past its deadline while still
// in a non-terminal status. Terminal tickets are never breached here;
// late resolution shows up in ComplianceBucket instead.
func (c *Calculator) IsBreached(ticket *domain.Ticket, now time.Time) bool {
	if ticket.IsTerminal() {
		return false
	}
	return now.After(ticket.SLADeadline)
}

// ComplianceBucketFor classifies a ticket as compliant, breached, or
// still pending, evaluated at now.
func (c *Calculator) ComplianceBucketFor(ticket *domain.Ticket, now time.Time) ComplianceBucket {
	if ticket.ResolvedAt != nil {
		if ticket.ResolvedAt.After(ticket.SLADeadline) {
			return BucketBreached
		}
		return BucketCompliant
	}
	if ticket.IsTerminal() {
		// closed without a resolution stamp: judge by close time
		if ticket.ClosedAt != nil && ticket.ClosedAt.After(ticket.SLADeadline) {
			return BucketBreached
		}
		return BucketCompliant
	}
	if now.After(ticket.SLADeadline) {
		return BucketBreached
	}
	return BucketPending
}
