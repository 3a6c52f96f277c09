package domain

import "time"

// AuditAction captures what kind of mutation produced an audit entry.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionImport AuditAction = "import"
	AuditActionExport AuditAction = "export"
	AuditActionLogin  AuditAction = "login"
	AuditActionLogout AuditAction = "logout"
)

// AuditLog is a write-once record created as a side effect of mutating
// operations. The core never reads it back.
type AuditLog struct {
	ID        int64
	UserID    int64
	Action    AuditAction
	Entity    string
	EntityID  *int64
	OldValues map[string]any
	NewValues map[string]any
	CreatedAt time.Time
}
