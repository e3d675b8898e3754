package notification

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification/dto"
)

// UseCase fans alerts out to users. Role and broadcast variants snapshot the
// directory at call time; a failure part way leaves the earlier rows written.
type UseCase interface {
	Notify(ctx context.Context, userID int64, input dto.NotifyInput) (*model.Notification, error)
	NotifyRole(ctx context.Context, role string, input dto.NotifyInput) ([]model.Notification, error)
	NotifyAll(ctx context.Context, input dto.NotifyInput) ([]model.Notification, error)

	List(ctx context.Context, filters *dto.ListFilters) ([]model.Notification, int, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
	MarkRead(ctx context.Context, userID, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, id int64) error
	ClearAll(ctx context.Context, userID int64) (int64, error)
}
