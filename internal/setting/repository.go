package setting

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type Repository interface {
	Get(ctx context.Context, category, key string) (*model.Setting, error)
	List(ctx context.Context) ([]model.Setting, error)
	Upsert(ctx context.Context, s *model.Setting) error
	InsertIfAbsent(ctx context.Context, s *model.Setting) (bool, error)
	Delete(ctx context.Context, category, key string) (bool, error)
	DeleteAll(ctx context.Context) error
}
