package directory

import (
	"context"

	"github.com/fekuna/omnipos-sales-service/internal/model"
)

// Repository is a read-only view of the user directory. Role queries are
// evaluated at call time; nothing is cached.
type Repository interface {
	GetStaff(ctx context.Context, id int64) (*model.Staff, error)
	ListStaffByRole(ctx context.Context, role string) ([]model.Staff, error)
	ListActiveStaff(ctx context.Context) ([]model.Staff, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)
}
