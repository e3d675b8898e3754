package dto

import "github.com/fekuna/omnipos-sales-service/internal/model"

// NotifyInput is the content of one alert. Type defaults to info and
// Category to "system".
type NotifyInput struct {
	Title      string
	Message    string
	Type       model.NotificationType
	Category   string
	ActionURL  string
	ActionText string
}

type ListFilters struct {
	UserID     int64
	UnreadOnly bool
	Page       int
	PerPage    int
}
