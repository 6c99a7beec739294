package model

import "time"

// AuditAction is the verb of an audited admin mutation.
type AuditAction string

const (
	AuditCreate      AuditAction = "create"
	AuditUpdate      AuditAction = "update"
	AuditDelete      AuditAction = "delete"
	AuditCancel      AuditAction = "cancel"
	AuditExtend      AuditAction = "extend"
	AuditBroadcast   AuditAction = "broadcast"
	AuditSchedule    AuditAction = "schedule"
	AuditToggleAdmin AuditAction = "toggle_admin"
	AuditBulkUpdate  AuditAction = "bulk_update"
	AuditBulkDelete  AuditAction = "bulk_delete"
	AuditRoleChange  AuditAction = "role_change"
)

// AuditEntry records one successful admin mutation.
type AuditEntry struct {
	ID         int64       `json:"id"`
	Actor      string      `json:"actor"`
	Action     AuditAction `json:"action"`
	Resource   string      `json:"resource"`
	ResourceID string      `json:"resource_id,omitempty"`
	Detail     string      `json:"detail,omitempty"`
	At         time.Time   `json:"at"`
}

// AuditListOptions pages through the audit log, newest first.
type AuditListOptions struct {
	Limit  int
	Offset int
	Actor  string
}

// Normalize clamps paging values.
func (o *AuditListOptions) Normalize() {
	if o.Limit <= 0 {
		o.Limit = 50
	}
	if o.Limit > 500 {
		o.Limit = 500
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
}
