package audit

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

const DefaultListLimit = 100

// Entry describes one change. Before and After are encoded as JSON; ActorID
// overrides the authenticated actor carried by ctx.
type Entry struct {
	Action     model.AuditAction
	EntityType string
	EntityID   *int64
	Before     any
	After      any
	ActorID    *int64
}

// Recorder appends to the audit trail. Record never fails its caller.
type Recorder interface {
	Record(ctx context.Context, entry Entry)
	ListRecent(ctx context.Context, limit int) ([]model.AuditLog, error)
}
