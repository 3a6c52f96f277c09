package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrisupport/complaint-service/internal/access"
	"github.com/agrisupport/complaint-service/internal/catalog"
	"github.com/agrisupport/complaint-service/internal/domain"
	"github.com/agrisupport/complaint-service/internal/events"
	"github.com/agrisupport/complaint-service/internal/repository"
	"github.com/agrisupport/complaint-service/internal/sla"
	apperrors "github.com/agrisupport/complaint-service/pkg/util"
)

// TicketService owns the complaint lifecycle: creation, status
// transitions, assignment, partial updates, and the call trail.
type TicketService struct {
	tickets  repository.TicketRepository
	callLogs repository.CallLogRepository
	audit    repository.AuditLogRepository
	org      repository.OrgRepository
	staff    repository.StaffRepository
	catalog  catalog.Resolver
	scope    *access.Resolver
	sla      *sla.Calculator

	dispatcher events.Dispatcher

	// swappable for tests
	newNumber func() string
	now       func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	CallLogRepo repository.CallLogRepository
	AuditRepo   repository.AuditLogRepository
	OrgRepo     repository.OrgRepository
	StaffRepo   repository.StaffRepository
	Catalog     catalog.Resolver
	Scope       *access.Resolver
	SLA         *sla.Calculator
	Dispatcher  events.Dispatcher
}

// TicketCreateInput describes complaint creation payload.
type TicketCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    domain.TicketPriority
	FarmerID    int64
	EquipmentID *int64
}

// TicketUpdateInput describes a partial update. Nil fields are left
// untouched. Changing Priority never recomputes the SLA deadline; the
// deadline is fixed at creation time.
type TicketUpdateInput struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *domain.TicketPriority
	Status      *domain.StatusName
}

// CallLogInput describes a call attempt against a ticket.
type CallLogInput struct {
	Outcome          domain.OutcomeName
	DurationSeconds  *int
	Remarks          *string
	NextFollowUpDate *time.Time
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		callLogs:   deps.CallLogRepo,
		audit:      deps.AuditRepo,
		org:        deps.OrgRepo,
		staff:      deps.StaffRepo,
		catalog:    deps.Catalog,
		scope:      deps.Scope,
		sla:        deps.SLA,
		dispatcher: deps.Dispatcher,
		newNumber:  NewTicketNumber,
		now:        time.Now,
	}
}

// Create raises a new complaint for a farmer. The farmer's org placement
// is snapshotted onto the ticket and never edited afterwards.
func (s *TicketService) Create(ctx context.Context, actor domain.Actor, input TicketCreateInput) (*domain.Ticket, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}
	if input.FarmerID == 0 {
		return nil, apperrors.NewValidationError("farmer_id required", nil)
	}
	priority := input.Priority
	if priority == "" {
		priority = domain.TicketPriorityNormal
	}
	if !domain.ValidPriority(priority) {
		return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": priority})
	}

	farmer, err := s.org.GetFarmer(ctx, input.FarmerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("farmer", map[string]any{"farmer_id": input.FarmerID})
		}
		return nil, apperrors.MapError(err)
	}
	if !farmer.IsActive {
		return nil, apperrors.NewValidationError("farmer inactive", map[string]any{"farmer_id": farmer.ID})
	}
	if !s.scope.CanCreateFor(actor, farmer.ZoneID) {
		return nil, apperrors.NewForbidden("farmer outside your zone")
	}
	if input.EquipmentID != nil {
		equipment, err := s.org.GetEquipment(ctx, *input.EquipmentID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("equipment", map[string]any{"equipment_id": *input.EquipmentID})
			}
			return nil, apperrors.MapError(err)
		}
		if equipment.FarmerID != farmer.ID {
			return nil, apperrors.NewValidationError("equipment does not belong to farmer", map[string]any{"equipment_id": equipment.ID})
		}
	}

	openStatus, found, err := s.catalog.StatusByName(ctx, domain.StatusOpen)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !found {
		return nil, apperrors.NewInternalError(errors.New("status catalog missing open"))
	}

	createdAt := s.now()
	ticket := &domain.Ticket{
		TicketNumber: s.newNumber(),
		Title:        title,
		Description:  strings.TrimSpace(input.Description),
		Category:     strings.TrimSpace(input.Category),
		Priority:     priority,
		Status:       openStatus,
		FarmerID:     farmer.ID,
		EquipmentID:  input.EquipmentID,
		ZoneID:       farmer.ZoneID,
		BranchID:     farmer.BranchID,
		LineID:       farmer.LineID,
		SLADeadline:  s.sla.ComputeDeadline(priority, createdAt),
		CreatedBy:    actor.ID,
		IsActive:     true,
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		if !repository.IsUniqueViolation(err) {
			return nil, apperrors.MapError(err)
		}
		// regenerate once; a second collision is surfaced to the caller
		ticket.TicketNumber = s.newNumber()
		if err := s.tickets.Create(ctx, ticket); err != nil {
			if repository.IsUniqueViolation(err) {
				return nil, apperrors.NewConflict("duplicate ticket number", map[string]any{"ticket_number": ticket.TicketNumber})
			}
			return nil, apperrors.MapError(err)
		}
	}

	s.publish(ctx, events.Event{
		Type:     events.EventComplaintCreated,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.ComplaintCreatedPayload{
			TicketNumber: ticket.TicketNumber,
			ZoneID:       ticket.ZoneID,
			BranchID:     ticket.BranchID,
			FarmerID:     ticket.FarmerID,
			Priority:     ticket.Priority,
			SLADeadline:  ticket.SLADeadline,
			Title:        ticket.Title,
		},
	})
	return ticket, nil
}

// Get fetches a ticket the actor is allowed to see.
func (s *TicketService) Get(ctx context.Context, actor domain.Actor, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.scope.CanView(actor, ticket) {
		// existence is not leaked to out-of-scope viewers
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

// List returns tickets within the actor's implicit scope intersected
// with the caller's explicit filter.
func (s *TicketService) List(ctx context.Context, actor domain.Actor, filter repository.TicketFilter) ([]domain.Ticket, error) {
	if err := resolveStatusFilter(ctx, s.catalog, &filter); err != nil {
		return nil, err
	}
	s.scope.ApplyScope(actor, &filter)
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// resolveStatusFilter maps the filter's status names onto catalog ids.
// An unknown name fails the whole request rather than silently matching
// nothing.
func resolveStatusFilter(ctx context.Context, resolver catalog.Resolver, filter *repository.TicketFilter) error {
	if len(filter.StatusNames) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(filter.StatusNames))
	for _, name := range filter.StatusNames {
		status, found, err := resolver.StatusByName(ctx, name)
		if err != nil {
			return apperrors.MapError(err)
		}
		if !found {
			return apperrors.NewInvalidStatus(string(name))
		}
		ids = append(ids, status.ID)
	}
	filter.StatusIDs = ids
	filter.StatusNames = nil
	return nil
}

// ChangeStatus moves a ticket through the lifecycle. Closing stamps
// closedAt (and resolvedAt when still unset); reopening preserves both as
// history. Remarks, when present, produce a call log with outcome
// "connected" as part of the same operation.
func (s *TicketService) ChangeStatus(ctx context.Context, actor domain.Actor, ticketID int64, statusName domain.StatusName, remarks string) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.scope.CanMutate(actor, ticket) {
		return nil, apperrors.NewForbidden("not allowed to modify this ticket")
	}

	oldStatus := ticket.Status
	newStatus, err := s.applyStatus(ctx, ticket, statusName)
	if err != nil {
		return nil, err
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	if strings.TrimSpace(remarks) != "" {
		connected, found, err := s.catalog.OutcomeByName(ctx, domain.OutcomeConnected)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if !found {
			return nil, apperrors.NewInternalError(errors.New("outcome catalog missing connected"))
		}
		statusDate := s.now()
		trimmed := strings.TrimSpace(remarks)
		log := &domain.CallLog{
			TicketID:            ticket.ID,
			CalledBy:            actor.ID,
			Outcome:             connected,
			Remarks:             &trimmed,
			ResultingStatusID:   &newStatus.ID,
			ResultingStatusDate: &statusDate,
		}
		if err := s.callLogs.Create(ctx, log); err != nil {
			// the status change is already applied; the caller must know
			// the trail entry is missing
			return nil, apperrors.MapError(err)
		}
	}

	s.recordAudit(ctx, actor.ID, ticket.ID,
		map[string]any{"status": oldStatus.Name},
		map[string]any{"status": newStatus.Name, "remarks": remarks})

	s.publish(ctx, events.Event{
		Type:     events.EventComplaintStatusChanged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus.Name,
			NewStatus: newStatus.Name,
			Remarks:   remarks,
		},
	})
	return ticket, nil
}

// Assign hands a ticket to an active executive in the ticket's zone.
// Pure reassignment; the status is left untouched.
func (s *TicketService) Assign(ctx context.Context, actor domain.Actor, ticketID, assigneeID int64) (*domain.Ticket, error) {
	if !s.scope.CanAssign(actor) {
		return nil, apperrors.NewForbidden("assignment requires admin role")
	}
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	assignee, err := s.staff.GetByID(ctx, assigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff", map[string]any{"staff_id": assigneeID})
		}
		return nil, apperrors.MapError(err)
	}
	if !assignee.Active {
		return nil, apperrors.NewInvalidAssignment("assignee inactive", map[string]any{"staff_id": assignee.ID})
	}
	if assignee.Role != domain.StaffRoleExecutive {
		return nil, apperrors.NewInvalidAssignment("assignee must be an executive", map[string]any{"staff_id": assignee.ID})
	}
	if assignee.ZoneID == nil || *assignee.ZoneID != ticket.ZoneID {
		return nil, apperrors.NewInvalidAssignment("assignee outside ticket zone", map[string]any{
			"staff_id": assignee.ID,
			"zone_id":  ticket.ZoneID,
		})
	}

	oldAssignee := ticket.AssignedTo
	ticket.AssignedTo = &assignee.ID
	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordAudit(ctx, actor.ID, ticket.ID,
		map[string]any{"assigned_to": oldAssignee},
		map[string]any{"assigned_to": assignee.ID})

	s.publish(ctx, events.Event{
		Type:     events.EventComplaintAssigned,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.ComplaintAssignedPayload{
			OldAssignee: oldAssignee,
			NewAssignee: assignee.ID,
		},
	})
	return ticket, nil
}

// Update applies a partial edit. The SLA deadline is never recomputed
// here, even when the priority changes.
func (s *TicketService) Update(ctx context.Context, actor domain.Actor, ticketID int64, input TicketUpdateInput) (*domain.Ticket, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.scope.CanMutate(actor, ticket) {
		return nil, apperrors.NewForbidden("not allowed to modify this ticket")
	}

	old := map[string]any{}
	updated := map[string]any{}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if title == "" {
			return nil, apperrors.NewValidationError("title cannot be empty", nil)
		}
		old["title"], updated["title"] = ticket.Title, title
		ticket.Title = title
	}
	if input.Description != nil {
		old["description"], updated["description"] = ticket.Description, *input.Description
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		old["category"], updated["category"] = ticket.Category, *input.Category
		ticket.Category = strings.TrimSpace(*input.Category)
	}
	if input.Priority != nil {
		if !domain.ValidPriority(*input.Priority) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		old["priority"], updated["priority"] = ticket.Priority, *input.Priority
		ticket.Priority = *input.Priority
	}
	if input.Status != nil {
		oldStatus := ticket.Status
		newStatus, err := s.applyStatus(ctx, ticket, *input.Status)
		if err != nil {
			return nil, err
		}
		old["status"], updated["status"] = oldStatus.Name, newStatus.Name
	}

	if len(updated) == 0 {
		return nil, apperrors.NewValidationError("no fields to update", nil)
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordAudit(ctx, actor.ID, ticket.ID, old, updated)
	return ticket, nil
}

// RecordCallLog appends an interaction record to the ticket's trail.
// It never changes the ticket status; nextFollowUpDate is advisory data
// for reminder tooling.
func (s *TicketService) RecordCallLog(ctx context.Context, actor domain.Actor, ticketID int64, input CallLogInput) (*domain.CallLog, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.scope.CanMutate(actor, ticket) {
		return nil, apperrors.NewForbidden("not allowed to modify this ticket")
	}

	outcome, found, err := s.catalog.OutcomeByName(ctx, input.Outcome)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !found {
		return nil, apperrors.NewInvalidOutcome(string(input.Outcome))
	}

	log := &domain.CallLog{
		TicketID:         ticket.ID,
		CalledBy:         actor.ID,
		Outcome:          outcome,
		DurationSeconds:  input.DurationSeconds,
		Remarks:          input.Remarks,
		NextFollowUpDate: input.NextFollowUpDate,
	}
	if err := s.callLogs.Create(ctx, log); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:     events.EventCallLogged,
		TicketID: ticket.ID,
		ActorID:  actor.ID,
		Payload: events.CallLoggedPayload{
			CallLogID:        log.ID,
			Outcome:          log.Outcome.Name,
			NextFollowUpDate: log.NextFollowUpDate,
		},
	})
	return log, nil
}

// ListCallLogs returns a ticket's trail, newest first.
func (s *TicketService) ListCallLogs(ctx context.Context, actor domain.Actor, ticketID int64, limit, offset int) ([]domain.CallLog, error) {
	ticket, err := s.loadTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !s.scope.CanView(actor, ticket) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	logs, err := s.callLogs.ListByTicket(ctx, ticketID, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return logs, nil
}

// applyStatus resolves statusName against the catalog and mutates the
// ticket's status and timestamps in place. Closed can only be entered
// from a non-closed state and always stamps closedAt; resolvedAt is set
// on first close and preserved across reopens.
func (s *TicketService) applyStatus(ctx context.Context, ticket *domain.Ticket, statusName domain.StatusName) (domain.TicketStatus, error) {
	newStatus, found, err := s.catalog.StatusByName(ctx, statusName)
	if err != nil {
		return domain.TicketStatus{}, apperrors.MapError(err)
	}
	if !found {
		return domain.TicketStatus{}, apperrors.NewInvalidStatus(string(statusName))
	}

	if newStatus.Name == domain.StatusClosed {
		if ticket.Status.Name == domain.StatusClosed {
			return domain.TicketStatus{}, apperrors.NewConflict("ticket already closed", map[string]any{"ticket_id": ticket.ID})
		}
		now := s.now()
		ticket.ClosedAt = &now
		if ticket.ResolvedAt == nil {
			ticket.ResolvedAt = &now
		}
	}
	ticket.Status = newStatus
	return newStatus, nil
}

func (s *TicketService) loadTicket(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
		}
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

func (s *TicketService) recordAudit(ctx context.Context, actorID, ticketID int64, oldValues, newValues map[string]any) {
	if s.audit == nil {
		return
	}
	entry := &domain.AuditLog{
		UserID:    actorID,
		Action:    domain.AuditActionUpdate,
		Entity:    "ticket",
		EntityID:  &ticketID,
		OldValues: oldValues,
		NewValues: newValues,
	}
	_ = s.audit.Create(ctx, entry)
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
