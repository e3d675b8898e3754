package sale

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
)

type UseCase interface {
	// ProcessSale persists the sale, its lines and the stock changes in one
	// transaction, then runs the post-commit alerts. Alert failures are
	// logged and never returned.
	ProcessSale(ctx context.Context, input *dto.ProcessSaleInput) (*dto.SaleResult, error)
	GetSale(ctx context.Context, id int64) (*model.Sale, error)
	ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
}
