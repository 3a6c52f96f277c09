package access

import (
	"github.com/agrisupport/complaint-service/internal/domain"
	"github.com/agrisupport/complaint-service/internal/repository"
)

// Resolver decides visibility and mutability of tickets for an actor.
// Every read and write in the service layer goes through it; the rules
// live here exactly once.
type Resolver struct{}

// NewResolver builds the resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// CanView reports whether the actor may read the ticket.
func (r *Resolver) CanView(actor domain.Actor, ticket *domain.Ticket) bool {
	if actor.Superuser {
		return true
	}
	switch actor.Role {
	case domain.StaffRoleMasterAdmin, domain.StaffRoleAdmin:
		return true
	case domain.StaffRoleExecutive:
		return actor.ZoneID != nil && *actor.ZoneID == ticket.ZoneID
	}
	return false
}

// CanMutate reports whether the actor may change the ticket. Executives
// must be in the ticket's zone and hold the assignment.
func (r *Resolver) CanMutate(actor domain.Actor, ticket *domain.Ticket) bool {
	if actor.Superuser {
		return true
	}
	switch actor.Role {
	case domain.StaffRoleMasterAdmin, domain.StaffRoleAdmin:
		return true
	case domain.StaffRoleExecutive:
		if actor.ZoneID == nil || *actor.ZoneID != ticket.ZoneID {
			return false
		}
		return ticket.AssignedTo != nil && *ticket.AssignedTo == actor.ID
	}
	return false
}

// CanCreateFor reports whether the actor may raise a ticket for a farmer
// in the given zone. Assignment is not required for creation.
func (r *Resolver) CanCreateFor(actor domain.Actor, farmerZoneID int64) bool {
	if actor.Superuser {
		return true
	}
	switch actor.Role {
	case domain.StaffRoleMasterAdmin, domain.StaffRoleAdmin:
		return true
	case domain.StaffRoleExecutive:
		return actor.ZoneID != nil && *actor.ZoneID == farmerZoneID
	}
	return false
}

// CanAssign reports whether the actor may reassign tickets at all.
func (r *Resolver) CanAssign(actor domain.Actor) bool {
	if actor.Superuser {
		return true
	}
	return actor.Role == domain.StaffRoleAdmin || actor.Role == domain.StaffRoleMasterAdmin
}

// ApplyScope pins the filter to the actor's implicit scope before any
// explicit filter is considered. An executive's zone always wins over a
// caller-supplied zone filter.
func (r *Resolver) ApplyScope(actor domain.Actor, filter *repository.TicketFilter) {
	if actor.Superuser {
		return
	}
	switch actor.Role {
	case domain.StaffRoleMasterAdmin, domain.StaffRoleAdmin:
		return
	case domain.StaffRoleExecutive:
		// an executive without a zone assignment matches nothing
		zone := int64(-1)
		if actor.ZoneID != nil {
			zone = *actor.ZoneID
		}
		filter.ZoneID = &zone
	default:
		zone := int64(-1)
		filter.ZoneID = &zone
	}
}
