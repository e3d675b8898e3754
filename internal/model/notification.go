package model

import "time"

type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationSuccess NotificationType = "success"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationWarning, NotificationError, NotificationSuccess:
		return true
	}
	return false
}

type Notification struct {
	ID         int64            `db:"id" json:"id"`
	UserID     int64            `db:"user_id" json:"user_id"`
	Title      string           `db:"title" json:"title"`
	Message    string           `db:"message" json:"message"`
	Type       NotificationType `db:"type" json:"type"`
	Category   string           `db:"category" json:"category"`
	IsRead     bool             `db:"is_read" json:"is_read"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	ReadAt     *time.Time       `db:"read_at" json:"read_at,omitempty"`
	ActionURL  *string          `db:"action_url" json:"action_url,omitempty"`
	ActionText *string          `db:"action_text" json:"action_text,omitempty"`
}
