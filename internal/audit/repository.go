package audit

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

// Repository is append-only: there is no update or delete.
type Repository interface {
	Create(ctx context.Context, log *model.AuditLog) error
	ListRecent(ctx context.Context, limit int) ([]model.AuditLog, error)
}
