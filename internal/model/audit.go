package model

import (
	"time"

	"github.com/jmoiron/sqlx/types"
)

type AuditAction string

const (
	AuditCreate AuditAction = "create"
	AuditUpdate AuditAction = "update"
	AuditDelete AuditAction = "delete"
	AuditLogin  AuditAction = "login"
	AuditLogout AuditAction = "logout"
)

// AuditLog is append-only.
type AuditLog struct {
	ID         int64              `db:"id" json:"id"`
	ActionDate time.Time          `db:"action_date" json:"action_date"`
	UserID     *int64             `db:"user_id" json:"user_id,omitempty"`
	ActionType AuditAction        `db:"action_type" json:"action_type"`
	TableName  string             `db:"table_name" json:"table_name"`
	RecordID   *int64             `db:"record_id" json:"record_id,omitempty"`
	OldValues  types.NullJSONText `db:"old_values" json:"old_values"`
	NewValues  types.NullJSONText `db:"new_values" json:"new_values"`
	IPAddress  *string            `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent  *string            `db:"user_agent" json:"user_agent,omitempty"`
}
