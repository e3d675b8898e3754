package salesv1

import (
	"context"
	"time"

	"google.golang.org/grpc"
)

const (
	SaleServiceName = "omnipos.sales.v1.SaleService"

	SaleService_ProcessSale_FullMethodName = "/" + SaleServiceName + "/ProcessSale"
	SaleService_GetSale_FullMethodName     = "/" + SaleServiceName + "/GetSale"
)

type SaleItem struct {
	PartId   int64  `json:"part_id"`
	Quantity int32  `json:"quantity"`
	Price    string `json:"price"`
}

type ProcessSaleRequest struct {
	Items         []*SaleItem `json:"items"`
	Total         string      `json:"total"`
	PaymentMethod string      `json:"payment_method"`
	CustomerId    int64       `json:"customer_id,omitempty"`
	Notes         string      `json:"notes,omitempty"`
}

type ProcessSaleResponse struct {
	SaleId        int64  `json:"sale_id"`
	ReceiptNumber string `json:"receipt_number"`
	Message       string `json:"message"`
}

type GetSaleRequest struct {
	Id int64 `json:"id"`
}

type SaleDetail struct {
	LineNo      int32  `json:"line_no"`
	PartId      int64  `json:"part_id"`
	Quantity    int32  `json:"quantity"`
	PriceAtSale string `json:"price_at_sale"`
	Subtotal    string `json:"subtotal"`
}

type Sale struct {
	Id            int64         `json:"id"`
	ReceiptNumber string        `json:"receipt_number"`
	SaleDate      time.Time     `json:"sale_date"`
	TotalAmount   string        `json:"total_amount"`
	PaymentMethod string        `json:"payment_method"`
	StaffId       int64         `json:"staff_id"`
	CustomerId    int64         `json:"customer_id,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	Status        string        `json:"status"`
	Details       []*SaleDetail `json:"details"`
}

type SaleServiceServer interface {
	ProcessSale(context.Context, *ProcessSaleRequest) (*ProcessSaleResponse, error)
	GetSale(context.Context, *GetSaleRequest) (*Sale, error)
}

var SaleService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: SaleServiceName,
	HandlerType: (*SaleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(SaleServiceName, "ProcessSale", func(srv any, ctx context.Context, req *ProcessSaleRequest) (any, error) {
			return srv.(SaleServiceServer).ProcessSale(ctx, req)
		}),
		unary(SaleServiceName, "GetSale", func(srv any, ctx context.Context, req *GetSaleRequest) (any, error) {
			return srv.(SaleServiceServer).GetSale(ctx, req)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/salesv1/sale.go",
}

func RegisterSaleServiceServer(s grpc.ServiceRegistrar, srv SaleServiceServer) {
	s.RegisterService(&SaleService_ServiceDesc, srv)
}

type SaleServiceClient interface {
	ProcessSale(ctx context.Context, in *ProcessSaleRequest, opts ...grpc.CallOption) (*ProcessSaleResponse, error)
	GetSale(ctx context.Context, in *GetSaleRequest, opts ...grpc.CallOption) (*Sale, error)
}

type saleServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewSaleServiceClient(cc grpc.ClientConnInterface) SaleServiceClient {
	return &saleServiceClient{cc}
}

func (c *saleServiceClient) ProcessSale(ctx context.Context, in *ProcessSaleRequest, opts ...grpc.CallOption) (*ProcessSaleResponse, error) {
	out := new(ProcessSaleResponse)
	if err := invoke(ctx, c.cc, SaleService_ProcessSale_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *saleServiceClient) GetSale(ctx context.Context, in *GetSaleRequest, opts ...grpc.CallOption) (*Sale, error) {
	out := new(Sale)
	if err := invoke(ctx, c.cc, SaleService_GetSale_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
