package salesv1

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const (
	InventoryServiceName = "omnipos.sales.v1.InventoryService"

	InventoryService_ListLowStock_FullMethodName  = "/" + InventoryServiceName + "/ListLowStock"
	InventoryService_Restock_FullMethodName       = "/" + InventoryServiceName + "/Restock"
	InventoryService_ListMovements_FullMethodName = "/" + InventoryServiceName + "/ListMovements"
)

type Part struct {
	Id            int64     `json:"id"`
	Name          string    `json:"name"`
	PartType      string    `json:"part_type,omitempty"`
	Brand         string    `json:"brand,omitempty"`
	Price         string    `json:"price"`
	StockQuantity int32     `json:"stock_quantity"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type ListLowStockRequest struct {
	// Threshold overrides inventory.low_stock_threshold when positive.
	Threshold int32 `json:"threshold,omitempty"`
	Page      int32 `json:"page,omitempty"`
	PageSize  int32 `json:"page_size,omitempty"`
}

type ListLowStockResponse struct {
	Items     []*Part `json:"items"`
	Total     int32   `json:"total"`
	Threshold int32   `json:"threshold"`
}

type RestockRequest struct {
	PartId      int64  `json:"part_id"`
	Quantity    int32  `json:"quantity"`
	Notes       string `json:"notes,omitempty"`
	ReferenceId string `json:"reference_id,omitempty"`
}

type ListMovementsRequest struct {
	PartId       int64  `json:"part_id,omitempty"`
	MovementType string `json:"movement_type,omitempty"`
	Page         int32  `json:"page,omitempty"`
	PageSize     int32  `json:"page_size,omitempty"`
}

type InventoryMovement struct {
	Id             int64     `json:"id"`
	PartId         int64     `json:"part_id"`
	MovementType   string    `json:"movement_type"`
	QuantityChange int32     `json:"quantity_change"`
	QuantityBefore int32     `json:"quantity_before"`
	QuantityAfter  int32     `json:"quantity_after"`
	ReferenceType  string    `json:"reference_type,omitempty"`
	ReferenceId    string    `json:"reference_id,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	CreatedBy      int64     `json:"created_by,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type ListMovementsResponse struct {
	Movements []*InventoryMovement `json:"movements"`
	Total     int32                `json:"total"`
}

type InventoryServiceServer interface {
	ListLowStock(context.Context, *ListLowStockRequest) (*ListLowStockResponse, error)
	Restock(context.Context, *RestockRequest) (*Part, error)
	ListMovements(context.Context, *ListMovementsRequest) (*ListMovementsResponse, error)
}

var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: InventoryServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(InventoryServiceName, "ListLowStock", func(srv any, ctx context.Context, req *ListLowStockRequest) (any, error) {
			return srv.(InventoryServiceServer).ListLowStock(ctx, req)
		}),
		unary(InventoryServiceName, "Restock", func(srv any, ctx context.Context, req *RestockRequest) (any, error) {
			return srv.(InventoryServiceServer).Restock(ctx, req)
		}),
		unary(InventoryServiceName, "ListMovements", func(srv any, ctx context.Context, req *ListMovementsRequest) (any, error) {
			return srv.(InventoryServiceServer).ListMovements(ctx, req)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/salesv1/inventory.go",
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}

type InventoryServiceClient interface {
	ListLowStock(ctx context.Context, in *ListLowStockRequest, opts ...grpc.CallOption) (*ListLowStockResponse, error)
	Restock(ctx context.Context, in *RestockRequest, opts ...grpc.CallOption) (*Part, error)
	ListMovements(ctx context.Context, in *ListMovementsRequest, opts ...grpc.CallOption) (*ListMovementsResponse, error)
}

type inventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryServiceClient(cc grpc.ClientConnInterface) InventoryServiceClient {
	return &inventoryServiceClient{cc}
}

func (c *inventoryServiceClient) ListLowStock(ctx context.Context, in *ListLowStockRequest, opts ...grpc.CallOption) (*ListLowStockResponse, error) {
	out := new(ListLowStockResponse)
	if err := invoke(ctx, c.cc, InventoryService_ListLowStock_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) Restock(ctx context.Context, in *RestockRequest, opts ...grpc.CallOption) (*Part, error) {
	out := new(Part)
	if err := invoke(ctx, c.cc, InventoryService_Restock_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) ListMovements(ctx context.Context, in *ListMovementsRequest, opts ...grpc.CallOption) (*ListMovementsResponse, error) {
	out := new(ListMovementsResponse)
	if err := invoke(ctx, c.cc, InventoryService_ListMovements_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
