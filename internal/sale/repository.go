package sale

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
)

type Repository interface {
	Create(ctx context.Context, s *model.Sale) error
	AddDetail(ctx context.Context, d *model.SaleDetail) error
	MarkCompleted(ctx context.Context, id int64) error

	GetByID(ctx context.Context, id int64) (*model.Sale, error)
	ListDetails(ctx context.Context, saleID int64) ([]model.SaleDetail, error)
	FindAll(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
	Count(ctx context.Context) (int, error)
}
