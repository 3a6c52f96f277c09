package domain

import "time"

// Zone is the top of the organizational hierarchy.
type Zone struct {
	ID        int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// Branch belongs to a zone.
type Branch struct {
	ID        int64
	ZoneID    int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// Line belongs to a branch.
type Line struct {
	ID        int64
	BranchID  int64
	Name      string
	IsActive  bool
	CreatedAt time.Time
}

// Farmer belongs to a line and carries the full org placement a new
// complaint snapshots.
type Farmer struct {
	ID        int64
	LineID    int64
	BranchID  int64
	ZoneID    int64
	Name      string
	Phone     string
	IsActive  bool
	CreatedAt time.Time
}

// Equipment is a serviceable unit installed at a farmer.
type Equipment struct {
	ID          int64
	FarmerID    int64
	SerialNo    string
	Model       string
	IsActive    bool
	InstalledAt *time.Time
	CreatedAt   time.Time
}
