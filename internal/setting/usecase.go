package setting

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type UseCase interface {
	// Get returns the stored value, or the documented default when nothing
	// is stored. Unknown keys without a default are a not-found error.
	Get(ctx context.Context, category, key string) (Value, error)

	// Typed readers never fail: lookup or parse problems are logged and the
	// documented default is returned.
	Decimal(ctx context.Context, category, key string) decimal.Decimal
	Int(ctx context.Context, category, key string) int
	Bool(ctx context.Context, category, key string) bool

	List(ctx context.Context) ([]model.Setting, error)
	Set(ctx context.Context, category, key, value string, updatedBy *int64) (*model.Setting, error)
	Delete(ctx context.Context, category, key string) error
	SeedDefaults(ctx context.Context) (int, error)
	Reset(ctx context.Context) error

	// Export groups every stored setting by category and key. Import upserts
	// such a document in one transaction and reports how many rows it wrote.
	Export(ctx context.Context) (Document, error)
	Import(ctx context.Context, doc Document, updatedBy *int64) (int, error)
}
