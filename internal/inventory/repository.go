package inventory

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

type Repository interface {
	// Parts
	GetByID(ctx context.Context, id int64) (*model.Part, error)
	BatchGetByIDs(ctx context.Context, ids []int64) ([]model.Part, error)
	FindAll(ctx context.Context, filters *dto.PartFilters) ([]model.Part, int, error)
	Create(ctx context.Context, part *model.Part) error

	// CompareAndSetStock writes next only while the row still holds expected.
	CompareAndSetStock(ctx context.Context, id int64, expected, next int, at time.Time) (bool, error)

	// Movements
	LogMovement(ctx context.Context, movement *model.InventoryMovement) error
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
