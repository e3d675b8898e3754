package inventory

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
)

// UseCase is the stock ledger. Decrement and Restock join the transaction
// carried by ctx when there is one.
type UseCase interface {
	GetPart(ctx context.Context, id int64) (*model.Part, error)
	BatchGetParts(ctx context.Context, ids []int64) (map[int64]model.Part, error)
	CreatePart(ctx context.Context, input *dto.CreatePartInput) (*model.Part, error)
	ListLowStock(ctx context.Context, threshold, page, pageSize int) ([]model.Part, int, error)

	Decrement(ctx context.Context, input *dto.DecrementInput) (int, error)
	IsBelowThreshold(ctx context.Context, partID int64, threshold int) (bool, error)
	Restock(ctx context.Context, input *dto.RestockInput) (*model.Part, error)
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.InventoryMovement, int, error)
}
