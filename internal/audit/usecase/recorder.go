package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-sales-service/internal/audit"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

type recorder struct {
	repo   audit.Repository
	logger logger.ZapLogger
	now    func() time.Time
}

func NewRecorder(repo audit.Repository, log logger.ZapLogger) audit.Recorder {
	return &recorder{
		repo:   repo,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *recorder) Record(ctx context.Context, e audit.Entry) {
	entry := &model.AuditLog{
		ActionDate: r.now(),
		UserID:     e.ActorID,
		ActionType: e.Action,
		TableName:  e.EntityType,
		RecordID:   e.EntityID,
		OldValues:  r.encode(e.Before),
		NewValues:  r.encode(e.After),
	}
	if entry.UserID == nil {
		if actor, ok := auth.GetActor(ctx); ok {
			id := actor.UserID
			entry.UserID = &id
		}
	}
	origin := auth.GetOrigin(ctx)
	if origin.IPAddress != "" {
		entry.IPAddress = &origin.IPAddress
	}
	if origin.UserAgent != "" {
		entry.UserAgent = &origin.UserAgent
	}

	if err := r.repo.Create(ctx, entry); err != nil {
		fields := []zap.Field{
			zap.String("action", string(e.Action)),
			zap.String("table", e.EntityType),
			zap.Error(err),
		}
		if e.EntityID != nil {
			fields = append(fields, zap.Int64("record_id", *e.EntityID))
		}
		r.logger.Error("failed to write audit log", fields...)
	}
}

func (r *recorder) ListRecent(ctx context.Context, limit int) ([]model.AuditLog, error) {
	if limit <= 0 || limit > audit.DefaultListLimit {
		limit = audit.DefaultListLimit
	}
	logs, err := r.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, apperror.Persistence("failed to list audit logs", err)
	}
	return logs, nil
}

func (r *recorder) encode(v any) types.NullJSONText {
	if v == nil {
		return types.NullJSONText{}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		r.logger.Warn("audit value not encodable", zap.Error(err))
		return types.NullJSONText{}
	}
	return types.NullJSONText{JSONText: types.JSONText(raw), Valid: true}
}
