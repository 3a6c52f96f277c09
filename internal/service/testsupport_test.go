package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agrisupport/complaint-service/internal/access"
	"github.com/agrisupport/complaint-service/internal/domain"
	"github.com/agrisupport/complaint-service/internal/repository"
	"github.com/agrisupport/complaint-service/internal/sla"
)

// fixed catalogs mirroring the seed migration
var (
	statusOpen     = domain.TicketStatus{ID: 1, Name: domain.StatusOpen}
	statusProgress = domain.TicketStatus{ID: 2, Name: domain.StatusProgress}
	statusClosed   = domain.TicketStatus{ID: 3, Name: domain.StatusClosed}
	statusReopen   = domain.TicketStatus{ID: 4, Name: domain.StatusReopen}

	outcomeConnected = domain.CallOutcome{ID: 1, Name: domain.OutcomeConnected}
	outcomeNoAnswer  = domain.CallOutcome{ID: 2, Name: domain.OutcomeNoAnswer}
	outcomeBusy      = domain.CallOutcome{ID: 3, Name: domain.OutcomeBusy}
	outcomeWrong     = domain.CallOutcome{ID: 4, Name: domain.OutcomeWrongNumber}
)

type staticCatalog struct{}

func (staticCatalog) StatusByName(_ context.Context, name domain.StatusName) (domain.TicketStatus, bool, error) {
	for _, status := range []domain.TicketStatus{statusOpen, statusProgress, statusClosed, statusReopen} {
		if status.Name == name {
			return status, true, nil
		}
	}
	return domain.TicketStatus{}, false, nil
}

func (staticCatalog) StatusByID(_ context.Context, id int64) (domain.TicketStatus, bool, error) {
	for _, status := range []domain.TicketStatus{statusOpen, statusProgress, statusClosed, statusReopen} {
		if status.ID == id {
			return status, true, nil
		}
	}
	return domain.TicketStatus{}, false, nil
}

func (staticCatalog) OutcomeByName(_ context.Context, name domain.OutcomeName) (domain.CallOutcome, bool, error) {
	for _, outcome := range []domain.CallOutcome{outcomeConnected, outcomeNoAnswer, outcomeBusy, outcomeWrong} {
		if outcome.Name == name {
			return outcome, true, nil
		}
	}
	return domain.CallOutcome{}, false, nil
}

type fakeTicketRepo struct {
	mu         sync.Mutex
	nextID     int64
	tickets    map[int64]*domain.Ticket
	lastFilter repository.TicketFilter
	failCreate int // number of upcoming creates to fail with a unique violation
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[int64]*domain.Ticket{}}
}

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", ConstraintName: "idx_tickets_ticket_number"}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate > 0 {
		r.failCreate--
		return uniqueViolation()
	}
	for _, existing := range r.tickets {
		if existing.TicketNumber == ticket.TicketNumber {
			return uniqueViolation()
		}
	}
	r.nextID++
	ticket.ID = r.nextID
	ticket.CreatedAt = time.Now()
	ticket.UpdatedAt = ticket.CreatedAt
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) Update(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tickets[ticket.ID]; !ok {
		return pgx.ErrNoRows
	}
	ticket.UpdatedAt = time.Now()
	stored := *ticket
	r.tickets[ticket.ID] = &stored
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) GetByNumber(_ context.Context, number string) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ticket := range r.tickets {
		if ticket.TicketNumber == number {
			copied := *ticket
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTicketRepo) ListWithFilter(_ context.Context, filter repository.TicketFilter) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastFilter = filter

	var result []domain.Ticket
	for _, ticket := range r.tickets {
		if filter.ZoneID != nil && ticket.ZoneID != *filter.ZoneID {
			continue
		}
		if filter.BranchID != nil && ticket.BranchID != *filter.BranchID {
			continue
		}
		if filter.AssignedTo != nil && (ticket.AssignedTo == nil || *ticket.AssignedTo != *filter.AssignedTo) {
			continue
		}
		if len(filter.StatusIDs) > 0 && !containsID(filter.StatusIDs, ticket.Status.ID) {
			continue
		}
		if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
			continue
		}
		result = append(result, *ticket)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func containsID(list []int64, id int64) bool {
	for _, candidate := range list {
		if candidate == id {
			return true
		}
	}
	return false
}

func containsPriority(list []domain.TicketPriority, p domain.TicketPriority) bool {
	for _, candidate := range list {
		if candidate == p {
			return true
		}
	}
	return false
}

type fakeCallLogRepo struct {
	mu     sync.Mutex
	nextID int64
	logs   []domain.CallLog
	fail   bool
}

func (r *fakeCallLogRepo) Create(_ context.Context, log *domain.CallLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return pgx.ErrTxClosed
	}
	r.nextID++
	log.ID = r.nextID
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}
	r.logs = append(r.logs, *log)
	return nil
}

func (r *fakeCallLogRepo) ListByTicket(_ context.Context, ticketID int64, limit, offset int) ([]domain.CallLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.CallLog
	for _, log := range r.logs {
		if log.TicketID == ticketID {
			result = append(result, log)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditLog
}

func (r *fakeAuditRepo) Create(_ context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry.ID = int64(len(r.entries) + 1)
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

type fakeOrgRepo struct {
	farmers   map[int64]*domain.Farmer
	equipment map[int64]*domain.Equipment
}

func newFakeOrgRepo() *fakeOrgRepo {
	return &fakeOrgRepo{
		farmers:   map[int64]*domain.Farmer{},
		equipment: map[int64]*domain.Equipment{},
	}
}

func (r *fakeOrgRepo) GetZone(_ context.Context, id int64) (*domain.Zone, error) {
	return &domain.Zone{ID: id, IsActive: true}, nil
}

func (r *fakeOrgRepo) GetBranch(_ context.Context, id int64) (*domain.Branch, error) {
	return &domain.Branch{ID: id, IsActive: true}, nil
}

func (r *fakeOrgRepo) GetLine(_ context.Context, id int64) (*domain.Line, error) {
	return &domain.Line{ID: id, IsActive: true}, nil
}

func (r *fakeOrgRepo) GetFarmer(_ context.Context, id int64) (*domain.Farmer, error) {
	farmer, ok := r.farmers[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return farmer, nil
}

func (r *fakeOrgRepo) GetEquipment(_ context.Context, id int64) (*domain.Equipment, error) {
	eq, ok := r.equipment[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return eq, nil
}

type fakeStaffRepo struct {
	staff map[int64]*domain.StaffMember
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{staff: map[int64]*domain.StaffMember{}}
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id int64) (*domain.StaffMember, error) {
	member, ok := r.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return member, nil
}

func (r *fakeStaffRepo) GetByEmail(_ context.Context, email string) (*domain.StaffMember, error) {
	for _, member := range r.staff {
		if member.Email == email {
			return member, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) UpdatePassword(_ context.Context, id int64, hash string) error {
	member, ok := r.staff[id]
	if !ok {
		return pgx.ErrNoRows
	}
	member.PasswordHash = hash
	return nil
}

// test fixture wiring

type ticketFixture struct {
	svc      *TicketService
	tickets  *fakeTicketRepo
	callLogs *fakeCallLogRepo
	audit    *fakeAuditRepo
	org      *fakeOrgRepo
	staff    *fakeStaffRepo
	calc     *sla.Calculator
	now      time.Time
}

func defaultOffsets() sla.Offsets {
	return sla.Offsets{
		Critical: 4 * time.Hour,
		Urgent:   24 * time.Hour,
		Normal:   72 * time.Hour,
	}
}

func newTicketFixture() *ticketFixture {
	f := &ticketFixture{
		tickets:  newFakeTicketRepo(),
		callLogs: &fakeCallLogRepo{},
		audit:    &fakeAuditRepo{},
		org:      newFakeOrgRepo(),
		staff:    newFakeStaffRepo(),
		calc:     sla.NewCalculator(defaultOffsets()),
		now:      time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewTicketService(TicketDependencies{
		TicketRepo:  f.tickets,
		CallLogRepo: f.callLogs,
		AuditRepo:   f.audit,
		OrgRepo:     f.org,
		StaffRepo:   f.staff,
		Catalog:     staticCatalog{},
		Scope:       access.NewResolver(),
		SLA:         f.calc,
	})
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *ticketFixture) addFarmer(id, lineID, branchID, zoneID int64) {
	f.org.farmers[id] = &domain.Farmer{
		ID:       id,
		LineID:   lineID,
		BranchID: branchID,
		ZoneID:   zoneID,
		Name:     "farmer",
		IsActive: true,
	}
}

func (f *ticketFixture) addExecutive(id, zoneID int64, active bool) {
	zone := zoneID
	f.staff.staff[id] = &domain.StaffMember{
		ID:     id,
		Name:   "exec",
		Email:  "exec@example.com",
		Role:   domain.StaffRoleExecutive,
		ZoneID: &zone,
		Active: active,
	}
}

func adminActor(id int64) domain.Actor {
	return domain.Actor{ID: id, Role: domain.StaffRoleAdmin}
}

func executiveActor(id, zoneID int64) domain.Actor {
	zone := zoneID
	return domain.Actor{ID: id, Role: domain.StaffRoleExecutive, ZoneID: &zone}
}

func superuserActor(id int64) domain.Actor {
	return domain.Actor{ID: id, Role: domain.StaffRoleMasterAdmin, Superuser: true}
}
