package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/agrisupport/complaint-service/internal/access"
	"github.com/agrisupport/complaint-service/internal/domain"
	"github.com/agrisupport/complaint-service/internal/repository"
	"github.com/agrisupport/complaint-service/internal/sla"
)

type statsFixture struct {
	svc     *StatsService
	tickets *fakeTicketRepo
	now     time.Time
}

func newStatsFixture() *statsFixture {
	f := &statsFixture{
		tickets: newFakeTicketRepo(),
		now:     time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewStatsService(f.tickets, staticCatalog{}, access.NewResolver(), sla.NewCalculator(defaultOffsets()))
	f.svc.now = func() time.Time { return f.now }
	return f
}

// seed places a ticket directly into storage with a caller-chosen creation
// time, bypassing the create path.
func (f *statsFixture) seed(ticket domain.Ticket) *domain.Ticket {
	f.tickets.mu.Lock()
	defer f.tickets.mu.Unlock()
	f.tickets.nextID++
	ticket.ID = f.tickets.nextID
	if ticket.Status.Name == "" {
		ticket.Status = statusOpen
	}
	if ticket.Priority == "" {
		ticket.Priority = domain.TicketPriorityNormal
	}
	ticket.IsActive = true
	stored := ticket
	f.tickets.tickets[ticket.ID] = &stored
	return &stored
}

func (f *statsFixture) seedWithDeadline(zoneID, branchID int64, priority domain.TicketPriority, createdAt time.Time) *domain.Ticket {
	calc := sla.NewCalculator(defaultOffsets())
	return f.seed(domain.Ticket{
		Priority:    priority,
		ZoneID:      zoneID,
		BranchID:    branchID,
		CreatedAt:   createdAt,
		SLADeadline: calc.ComputeDeadline(priority, createdAt),
	})
}

func closeTicket(ticket *domain.Ticket, at time.Time) {
	ticket.Status = statusClosed
	ticket.ClosedAt = &at
	if ticket.ResolvedAt == nil {
		ticket.ResolvedAt = &at
	}
}

func TestStatsBreachIsQueryTimeState(t *testing.T) {
	f := newStatsFixture()
	created := f.now.Add(-5 * time.Hour)
	// critical window is 4h, so this open ticket is already past deadline
	ticket := f.seedWithDeadline(1, 1, domain.TicketPriorityCritical, created)

	stats, err := f.svc.Stats(context.Background(), adminActor(100), repository.TicketFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalCount)
	require.Equal(t, 1, stats.OpenCount)
	require.Equal(t, 1, stats.CriticalCount)
	require.Equal(t, 1, stats.BreachCount)
	require.Equal(t, 0, stats.ClosedCount)

	// closing removes it from the breach count; the late resolution now
	// lives in the compliance report instead
	closeTicket(ticket, f.now)
	f.tickets.tickets[ticket.ID] = ticket

	stats, err = f.svc.Stats(context.Background(), adminActor(100), repository.TicketFilter{})
	require.NoError(t, err)
	require.Equal(t, 0, stats.BreachCount)
	require.Equal(t, 1, stats.ClosedCount)
	require.Equal(t, 1, stats.ResolvedCount)
	require.Equal(t, 0, stats.OpenCount)
}

func TestStatsCountsReopenAsOpen(t *testing.T) {
	f := newStatsFixture()
	created := f.now.Add(-1 * time.Hour)
	resolved := f.now.Add(-30 * time.Minute)

	reopened := f.seedWithDeadline(1, 1, domain.TicketPriorityNormal, created)
	reopened.Status = statusReopen
	reopened.ResolvedAt = &resolved
	reopened.ClosedAt = &resolved
	f.tickets.tickets[reopened.ID] = reopened

	stats, err := f.svc.Stats(context.Background(), adminActor(100), repository.TicketFilter{})
	require.NoError(t, err)
	require.Equal(t, 1, stats.OpenCount)
	require.Equal(t, 1, stats.ResolvedCount)
	require.Equal(t, 0, stats.ClosedCount)
}

func TestSlaComplianceByPriority(t *testing.T) {
	f := newStatsFixture()
	base := f.now.Add(-10 * time.Hour)

	// critical, resolved after its 4h window: breached
	late := f.seedWithDeadline(1, 1, domain.TicketPriorityCritical, base)
	closeTicket(late, base.Add(5*time.Hour))
	f.tickets.tickets[late.ID] = late

	// critical, resolved inside the window: compliant
	onTime := f.seedWithDeadline(1, 1, domain.TicketPriorityCritical, base)
	closeTicket(onTime, base.Add(2*time.Hour))
	f.tickets.tickets[onTime.ID] = onTime

	// normal, still open and well inside its 72h window: pending
	f.seedWithDeadline(1, 1, domain.TicketPriorityNormal, base)

	rows, err := f.svc.SlaComplianceByPriority(context.Background(), adminActor(100), repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, domain.TicketPriorityCritical, rows[0].Priority)
	require.Equal(t, 2, rows[0].Total)
	require.Equal(t, 1, rows[0].Compliant)
	require.Equal(t, 1, rows[0].Breached)

	require.Equal(t, domain.TicketPriorityNormal, rows[1].Priority)
	require.Equal(t, 1, rows[1].Total)
	require.Equal(t, 0, rows[1].Compliant)
	require.Equal(t, 0, rows[1].Breached)
}

func TestOpenTicketPastDeadlineCountsBreachedInCompliance(t *testing.T) {
	f := newStatsFixture()
	f.seedWithDeadline(1, 1, domain.TicketPriorityCritical, f.now.Add(-5*time.Hour))

	rows, err := f.svc.SlaComplianceByPriority(context.Background(), adminActor(100), repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, 1, rows[0].Breached)
	require.Equal(t, 0, rows[0].Compliant)
}

func TestMeanTimeToResolutionByZone(t *testing.T) {
	f := newStatsFixture()
	base := f.now.Add(-48 * time.Hour)

	first := f.seedWithDeadline(1, 1, domain.TicketPriorityNormal, base)
	closeTicket(first, base.Add(2*time.Hour))
	f.tickets.tickets[first.ID] = first

	second := f.seedWithDeadline(1, 1, domain.TicketPriorityNormal, base)
	closeTicket(second, base.Add(4*time.Hour))
	f.tickets.tickets[second.ID] = second

	// zone 2 has only an unresolved ticket and must not appear
	f.seedWithDeadline(2, 2, domain.TicketPriorityNormal, base)

	rows, err := f.svc.MeanTimeToResolution(context.Background(), adminActor(100), MTTRByZone, repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, int64(1), rows[0].EntityID)
	require.Equal(t, 2, rows[0].ResolvedCount)
	require.InDelta(t, 3.0, rows[0].MeanHours, 0.001)
}

func TestMeanTimeToResolutionByEquipmentSkipsUnattached(t *testing.T) {
	f := newStatsFixture()
	base := f.now.Add(-24 * time.Hour)

	equipmentID := int64(7)
	withEquipment := f.seedWithDeadline(1, 1, domain.TicketPriorityNormal, base)
	withEquipment.EquipmentID = &equipmentID
	closeTicket(withEquipment, base.Add(6*time.Hour))
	f.tickets.tickets[withEquipment.ID] = withEquipment

	// resolved but not tied to equipment: excluded from this grouping
	bare := f.seedWithDeadline(1, 1, domain.TicketPriorityNormal, base)
	closeTicket(bare, base.Add(1*time.Hour))
	f.tickets.tickets[bare.ID] = bare

	rows, err := f.svc.MeanTimeToResolution(context.Background(), adminActor(100), MTTRByEquipment, repository.TicketFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, equipmentID, rows[0].EntityID)
	require.InDelta(t, 6.0, rows[0].MeanHours, 0.001)
}

func TestMeanTimeToResolutionRejectsUnknownGrouping(t *testing.T) {
	f := newStatsFixture()
	_, err := f.svc.MeanTimeToResolution(context.Background(), adminActor(100), "farmer", repository.TicketFilter{})
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestStatsScopeOverridesExplicitZoneFilter(t *testing.T) {
	f := newStatsFixture()
	base := f.now.Add(-1 * time.Hour)
	f.seedWithDeadline(1, 1, domain.TicketPriorityNormal, base)
	f.seedWithDeadline(2, 2, domain.TicketPriorityNormal, base)

	// the executive asks for zone 2 but only ever sees their own zone 1
	otherZone := int64(2)
	stats, err := f.svc.Stats(context.Background(), executiveActor(200, 1), repository.TicketFilter{ZoneID: &otherZone})
	require.NoError(t, err)
	require.Equal(t, 1, stats.TotalCount)
	require.Equal(t, int64(1), *f.tickets.lastFilter.ZoneID)
}

func TestStatsZonelessExecutiveSeesNothing(t *testing.T) {
	f := newStatsFixture()
	f.seedWithDeadline(1, 1, domain.TicketPriorityNormal, f.now.Add(-1*time.Hour))

	actor := domain.Actor{ID: 300, Role: domain.StaffRoleExecutive}
	stats, err := f.svc.Stats(context.Background(), actor, repository.TicketFilter{})
	require.NoError(t, err)
	require.Equal(t, 0, stats.TotalCount)
}
