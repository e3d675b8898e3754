package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/directory"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification"
	"github.com/fekuna/omnipos-sales-service/internal/notification/dto"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
	"go.uber.org/zap"
)

const defaultCategory = "system"

// Publisher pushes a persisted notification to realtime subscribers.
// *cache.RedisClient satisfies it.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

// Channel is the pub/sub channel a user's client listens on.
func Channel(userID int64) string {
	return fmt.Sprintf("notifications:%d", userID)
}

type notificationUseCase struct {
	repo      notification.Repository
	directory directory.Repository
	publisher Publisher
	logger    logger.ZapLogger
	now       func() time.Time
}

// NewNotificationUseCase wires the fan-out. publisher may be nil.
func NewNotificationUseCase(repo notification.Repository, dir directory.Repository, publisher Publisher, log logger.ZapLogger) notification.UseCase {
	return &notificationUseCase{
		repo:      repo,
		directory: dir,
		publisher: publisher,
		logger:    log,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (uc *notificationUseCase) Notify(ctx context.Context, userID int64, input dto.NotifyInput) (*model.Notification, error) {
	n, err := uc.build(userID, input)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return nil, apperror.Persistence("failed to create notification", err)
	}
	uc.publish(ctx, n)
	return n, nil
}

func (uc *notificationUseCase) NotifyRole(ctx context.Context, role string, input dto.NotifyInput) ([]model.Notification, error) {
	users, err := uc.directory.ListStaffByRole(ctx, role)
	if err != nil {
		return nil, apperror.Persistence("failed to resolve role members", err)
	}
	return uc.fanOut(ctx, users, input)
}

func (uc *notificationUseCase) NotifyAll(ctx context.Context, input dto.NotifyInput) ([]model.Notification, error) {
	users, err := uc.directory.ListActiveStaff(ctx)
	if err != nil {
		return nil, apperror.Persistence("failed to resolve users", err)
	}
	return uc.fanOut(ctx, users, input)
}

// fanOut writes one notification per user and stops at the first failure.
func (uc *notificationUseCase) fanOut(ctx context.Context, users []model.Staff, input dto.NotifyInput) ([]model.Notification, error) {
	out := make([]model.Notification, 0, len(users))
	for _, u := range users {
		n, err := uc.Notify(ctx, u.ID, input)
		if err != nil {
			uc.logger.Warn("notification fan-out stopped",
				zap.Int("written", len(out)),
				zap.Int("targets", len(users)),
				zap.Error(err),
			)
			return out, err
		}
		out = append(out, *n)
	}
	return out, nil
}

func (uc *notificationUseCase) List(ctx context.Context, filters *dto.ListFilters) ([]model.Notification, int, error) {
	items, total, err := uc.repo.List(ctx, filters)
	if err != nil {
		return nil, 0, apperror.Persistence("failed to list notifications", err)
	}
	return items, total, nil
}

func (uc *notificationUseCase) UnreadCount(ctx context.Context, userID int64) (int, error) {
	n, err := uc.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, apperror.Persistence("failed to count notifications", err)
	}
	return n, nil
}

func (uc *notificationUseCase) MarkRead(ctx context.Context, userID, id int64) error {
	ok, err := uc.repo.MarkRead(ctx, userID, id, uc.now())
	if err != nil {
		return apperror.Persistence("failed to update notification", err)
	}
	if !ok {
		return apperror.NotFound("notification not found or already read")
	}
	return nil
}

func (uc *notificationUseCase) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := uc.repo.MarkAllRead(ctx, userID, uc.now())
	if err != nil {
		return 0, apperror.Persistence("failed to update notifications", err)
	}
	return n, nil
}

func (uc *notificationUseCase) Delete(ctx context.Context, userID, id int64) error {
	ok, err := uc.repo.Delete(ctx, userID, id)
	if err != nil {
		return apperror.Persistence("failed to delete notification", err)
	}
	if !ok {
		return apperror.NotFound("notification not found")
	}
	return nil
}

func (uc *notificationUseCase) ClearAll(ctx context.Context, userID int64) (int64, error) {
	n, err := uc.repo.DeleteAll(ctx, userID)
	if err != nil {
		return 0, apperror.Persistence("failed to clear notifications", err)
	}
	return n, nil
}

func (uc *notificationUseCase) build(userID int64, input dto.NotifyInput) (*model.Notification, error) {
	if userID <= 0 {
		return nil, apperror.Validation("notification recipient is required")
	}
	title := strings.TrimSpace(input.Title)
	message := strings.TrimSpace(input.Message)
	if title == "" || message == "" {
		return nil, apperror.Validation("notification title and message are required")
	}

	kind := input.Type
	if kind == "" {
		kind = model.NotificationInfo
	}
	if !kind.Valid() {
		return nil, apperror.Validation("unknown notification type %q", kind)
	}
	category := input.Category
	if category == "" {
		category = defaultCategory
	}

	n := &model.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      kind,
		Category:  category,
		CreatedAt: uc.now(),
	}
	if input.ActionURL != "" {
		n.ActionURL = &input.ActionURL
	}
	if input.ActionText != "" {
		n.ActionText = &input.ActionText
	}
	return n, nil
}

// publish is best effort; the stored row is the source of truth.
func (uc *notificationUseCase) publish(ctx context.Context, n *model.Notification) {
	if uc.publisher == nil {
		return
	}
	payload, err := json.Marshal(n)
	if err != nil {
		uc.logger.Warn("failed to encode notification", zap.Int64("notification_id", n.ID), zap.Error(err))
		return
	}
	if err := uc.publisher.Publish(ctx, Channel(n.UserID), payload); err != nil {
		uc.logger.Warn("failed to publish notification",
			zap.Int64("notification_id", n.ID),
			zap.Int64("user_id", n.UserID),
			zap.Error(err),
		)
	}
}
