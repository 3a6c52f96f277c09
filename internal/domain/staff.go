package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleExecutive   StaffRole = "executive"
	StaffRoleAdmin       StaffRole = "admin"
	StaffRoleMasterAdmin StaffRole = "masterAdmin"
)

// StaffMember models a field executive or administrator.
type StaffMember struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	ZoneID       *int64
	BranchID     *int64
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the per-request identity every core operation is gated on.
// Superuser is decided once at authentication time rather than re-deriving
// it from an identity string in every check.
type Actor struct {
	ID        int64
	Role      StaffRole
	ZoneID    *int64
	BranchID  *int64
	Superuser bool
}

// ActorFor builds the request actor for a staff member. masterEmail is the
// configured master-admin identity.
func ActorFor(staff *StaffMember, masterEmail string) Actor {
	return Actor{
		ID:        staff.ID,
		Role:      staff.Role,
		ZoneID:    staff.ZoneID,
		BranchID:  staff.BranchID,
		Superuser: staff.Role == StaffRoleMasterAdmin || (masterEmail != "" && staff.Email == masterEmail),
	}
}
