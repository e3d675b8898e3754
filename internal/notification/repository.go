package notification

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification/dto"
)

type Repository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, filters *dto.ListFilters) ([]model.Notification, int, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)

	// MarkRead only touches unread rows owned by userID.
	MarkRead(ctx context.Context, userID, id int64, at time.Time) (bool, error)
	MarkAllRead(ctx context.Context, userID int64, at time.Time) (int64, error)
	Delete(ctx context.Context, userID, id int64) (bool, error)
	DeleteAll(ctx context.Context, userID int64) (int64, error)
}
