package service

import (
	"context"
	"time"

	"github.com/agrisupport/complaint-service/internal/access"
	"github.com/agrisupport/complaint-service/internal/catalog"
	"github.com/agrisupport/complaint-service/internal/domain"
	"github.com/agrisupport/complaint-service/internal/repository"
	"github.com/agrisupport/complaint-service/internal/sla"
	apperrors "github.com/agrisupport/complaint-service/pkg/util"
)

// aggregationWindow bounds how many scoped tickets a single stats query
// walks. Breach state depends on the query clock, so these numbers are
// computed here rather than stored.
const aggregationWindow = 10000

// StatsService derives counts, compliance rates, and resolution times
// over the actor-scoped ticket set.
type StatsService struct {
	tickets repository.TicketRepository
	catalog catalog.Resolver
	scope   *access.Resolver
	sla     *sla.Calculator

	now func() time.Time
}

// NewStatsService constructs the service.
func NewStatsService(tickets repository.TicketRepository, resolver catalog.Resolver, scope *access.Resolver, calculator *sla.Calculator) *StatsService {
	return &StatsService{
		tickets: tickets,
		catalog: resolver,
		scope:   scope,
		sla:     calculator,
		now:     time.Now,
	}
}

// TicketStats is a point-in-time summary of the scoped ticket set.
type TicketStats struct {
	TotalCount    int `json:"total_count"`
	OpenCount     int `json:"open_count"`
	ResolvedCount int `json:"resolved_count"`
	ClosedCount   int `json:"closed_count"`
	CriticalCount int `json:"critical_count"`
	BreachCount   int `json:"breach_count"`
}

// PriorityCompliance is one row of the SLA compliance report.
type PriorityCompliance struct {
	Priority  domain.TicketPriority `json:"priority"`
	Total     int                   `json:"total"`
	Compliant int                   `json:"compliant"`
	Breached  int                   `json:"breached"`
}

// MTTRGroupBy selects the grouping dimension for resolution times.
type MTTRGroupBy string

const (
	MTTRByZone      MTTRGroupBy = "zone"
	MTTRByBranch    MTTRGroupBy = "branch"
	MTTRByEquipment MTTRGroupBy = "equipment"
)

// MTTREntry reports the mean time to resolution for one entity. Entities
// with no resolved tickets do not appear.
type MTTREntry struct {
	EntityID      int64   `json:"entity_id"`
	ResolvedCount int     `json:"resolved_count"`
	MeanHours     float64 `json:"mean_hours"`
}

// Stats computes the summary counts at the current instant. Two
// identical queries at different times can disagree on breach counts
// without any data change.
func (s *StatsService) Stats(ctx context.Context, actor domain.Actor, filter repository.TicketFilter) (*TicketStats, error) {
	tickets, err := s.scopedTickets(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &TicketStats{TotalCount: len(tickets)}
	for i := range tickets {
		ticket := &tickets[i]
		switch ticket.Status.Name {
		case domain.StatusOpen, domain.StatusReopen:
			stats.OpenCount++
		case domain.StatusClosed:
			stats.ClosedCount++
		}
		if ticket.ResolvedAt != nil {
			stats.ResolvedCount++
		}
		if ticket.Priority == domain.TicketPriorityCritical {
			stats.CriticalCount++
		}
		if s.sla.IsBreached(ticket, now) {
			stats.BreachCount++
		}
	}
	return stats, nil
}

// SlaComplianceByPriority groups the scoped set by priority and buckets
// each ticket as compliant, breached, or pending.
func (s *StatsService) SlaComplianceByPriority(ctx context.Context, actor domain.Actor, filter repository.TicketFilter) ([]PriorityCompliance, error) {
	tickets, err := s.scopedTickets(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	now := s.now()
	byPriority := map[domain.TicketPriority]*PriorityCompliance{}
	for i := range tickets {
		ticket := &tickets[i]
		row, ok := byPriority[ticket.Priority]
		if !ok {
			row = &PriorityCompliance{Priority: ticket.Priority}
			byPriority[ticket.Priority] = row
		}
		row.Total++
		switch s.sla.ComplianceBucketFor(ticket, now) {
		case sla.BucketCompliant:
			row.Compliant++
		case sla.BucketBreached:
			row.Breached++
		}
	}

	ordered := []domain.TicketPriority{domain.TicketPriorityCritical, domain.TicketPriorityUrgent, domain.TicketPriorityNormal}
	result := make([]PriorityCompliance, 0, len(byPriority))
	for _, priority := range ordered {
		if row, ok := byPriority[priority]; ok {
			result = append(result, *row)
		}
	}
	return result, nil
}

// MeanTimeToResolution computes mean(resolvedAt - createdAt) in hours per
// entity, over resolved tickets only.
func (s *StatsService) MeanTimeToResolution(ctx context.Context, actor domain.Actor, groupBy MTTRGroupBy, filter repository.TicketFilter) ([]MTTREntry, error) {
	switch groupBy {
	case MTTRByZone, MTTRByBranch, MTTRByEquipment:
	default:
		return nil, apperrors.NewValidationError("unknown group_by", map[string]any{"group_by": groupBy})
	}

	tickets, err := s.scopedTickets(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		total time.Duration
		count int
	}
	buckets := map[int64]*bucket{}
	order := []int64{}
	for i := range tickets {
		ticket := &tickets[i]
		if ticket.ResolvedAt == nil {
			continue
		}
		var key int64
		switch groupBy {
		case MTTRByZone:
			key = ticket.ZoneID
		case MTTRByBranch:
			key = ticket.BranchID
		case MTTRByEquipment:
			if ticket.EquipmentID == nil {
				continue
			}
			key = *ticket.EquipmentID
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			order = append(order, key)
		}
		b.total += ticket.ResolvedAt.Sub(ticket.CreatedAt)
		b.count++
	}

	result := make([]MTTREntry, 0, len(buckets))
	for _, key := range order {
		b := buckets[key]
		result = append(result, MTTREntry{
			EntityID:      key,
			ResolvedCount: b.count,
			MeanHours:     (b.total / time.Duration(b.count)).Hours(),
		})
	}
	return result, nil
}

func (s *StatsService) scopedTickets(ctx context.Context, actor domain.Actor, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if err := resolveStatusFilter(ctx, s.catalog, &filter); err != nil {
		return nil, err
	}
	s.scope.ApplyScope(actor, &filter)
	filter.Limit = aggregationWindow
	filter.Offset = 0
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}
