package handler

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/salesv1"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

type stubSales struct {
	got     *dto.ProcessSaleInput
	err     error
	sale    *model.Sale
	filters *dto.SaleFilters
}

func (s *stubSales) ProcessSale(_ context.Context, input *dto.ProcessSaleInput) (*dto.SaleResult, error) {
	s.got = input
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SaleResult{SaleID: 17, ReceiptNumber: "RCP-20260301-K3M9Q2ZX"}, nil
}

func (s *stubSales) GetSale(_ context.Context, id int64) (*model.Sale, error) {
	if s.sale == nil || s.sale.ID != id {
		return nil, apperror.NotFound("sale %d not found", id)
	}
	return s.sale, nil
}

func (s *stubSales) ListSales(_ context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	s.filters = filters
	return []model.Sale{}, 0, nil
}

func newRouter(h *SaleHandler, actor *auth.Actor) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if actor != nil {
				req = req.WithContext(auth.WithActor(req.Context(), *actor))
			}
			next.ServeHTTP(w, req)
		})
	})
	h.Routes(r)
	return r
}

func TestHTTPProcessSale(t *testing.T) {
	uc := &stubSales{}
	r := newRouter(NewSaleHandler(uc, logger.NewNop()), &auth.Actor{UserID: 4, Role: model.RoleStaff})

	body := `{"total":"6000.00","paymentMethod":"gcash","customerId":9,"items":[{"id":1,"quantity":2,"price":"2500.00"},{"id":3,"quantity":1,"price":1000}]}`
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales/", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var res struct {
		Success       bool   `json:"success"`
		Message       string `json:"message"`
		SaleID        int64  `json:"saleId"`
		ReceiptNumber string `json:"receiptNumber"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.True(t, res.Success)
	assert.Equal(t, "Sale processed successfully", res.Message)
	assert.Equal(t, int64(17), res.SaleID)
	assert.Equal(t, "RCP-20260301-K3M9Q2ZX", res.ReceiptNumber)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(4), uc.got.StaffID)
	assert.Equal(t, model.PaymentGCash, uc.got.PaymentMethod)
	assert.True(t, uc.got.Total.Equal(decimal.NewFromInt(6000)))
	require.NotNil(t, uc.got.CustomerID)
	assert.Equal(t, int64(9), *uc.got.CustomerID)
	require.Len(t, uc.got.Items, 2)
	assert.Equal(t, int64(3), uc.got.Items[1].PartID)
	assert.True(t, uc.got.Items[1].Price.Equal(decimal.NewFromInt(1000)))
}

func TestHTTPProcessSale_Errors(t *testing.T) {
	tests := []struct {
		name    string
		actor   *auth.Actor
		body    string
		err     error
		status  int
		message string
	}{
		{"unauthenticated", nil, `{}`, nil, http.StatusUnauthorized, "authentication required"},
		{"malformed body", &auth.Actor{UserID: 4}, `{"items":`, nil, http.StatusBadRequest, "invalid request body"},
		{"empty cart", &auth.Actor{UserID: 4}, `{"items":[]}`, apperror.Validation("cart is empty"), http.StatusBadRequest, "cart is empty"},
		{"unknown part", &auth.Actor{UserID: 4}, `{"items":[]}`, apperror.NotFound("part 7 not found"), http.StatusNotFound, "part 7 not found"},
		{"commit failed", &auth.Actor{UserID: 4}, `{"items":[]}`, apperror.Persistence("failed to process sale", context.DeadlineExceeded), http.StatusInternalServerError, "failed to process sale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(NewSaleHandler(&stubSales{err: tt.err}, logger.NewNop()), tt.actor)
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sales/", strings.NewReader(tt.body)))
			assert.Equal(t, tt.status, rec.Code)

			var res struct {
				Success bool   `json:"success"`
				Message string `json:"message"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
			assert.False(t, res.Success)
			assert.Equal(t, tt.message, res.Message)
		})
	}
}

func TestHTTPListSales_Filters(t *testing.T) {
	uc := &stubSales{}
	r := newRouter(NewSaleHandler(uc, logger.NewNop()), &auth.Actor{UserID: 1, Role: model.RoleAdmin})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/?q=RCP-2026&staff_id=3&from=2026-03-01T00:00:00%2B08:00&page=2&limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotNil(t, uc.filters)
	assert.Equal(t, "RCP-2026", uc.filters.Query)
	assert.Equal(t, int64(3), uc.filters.StaffID)
	assert.Equal(t, 2, uc.filters.Page)
	assert.Equal(t, 5, uc.filters.PageSize)
	require.NotNil(t, uc.filters.From)
	assert.Equal(t, time.Date(2026, 2, 28, 16, 0, 0, 0, time.UTC), *uc.filters.From)
	assert.Nil(t, uc.filters.To)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/?to=yesterday", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHTTPGetSale(t *testing.T) {
	uc := &stubSales{sale: &model.Sale{ID: 5, ReceiptNumber: "RCP-20260301-AAAA0000"}}
	r := newRouter(NewSaleHandler(uc, logger.NewNop()), &auth.Actor{UserID: 1})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/5", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "RCP-20260301-AAAA0000")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sales/6", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func dialSaleService(t *testing.T, uc *stubSales, verifier *auth.TokenVerifier) salesv1.SaleServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(auth.UnaryInterceptor(verifier)))
	salesv1.RegisterSaleServiceServer(srv, NewSaleHandler(uc, logger.NewNop()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return salesv1.NewSaleServiceClient(conn)
}

func TestGRPCProcessSale(t *testing.T) {
	verifier := auth.NewTokenVerifier("test-secret")
	uc := &stubSales{}
	client := dialSaleService(t, uc, verifier)

	token, err := verifier.Issue(auth.Actor{UserID: 8, Name: "carlo", Role: model.RoleStaff}, time.Hour)
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)

	res, err := client.ProcessSale(ctx, &salesv1.ProcessSaleRequest{
		Items:         []*salesv1.SaleItem{{PartId: 2, Quantity: 3, Price: "450.00"}},
		Total:         "1350.00",
		PaymentMethod: "card",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(17), res.SaleId)
	assert.Equal(t, "RCP-20260301-K3M9Q2ZX", res.ReceiptNumber)

	require.NotNil(t, uc.got)
	assert.Equal(t, int64(8), uc.got.StaffID)
	assert.Nil(t, uc.got.CustomerID)
	assert.True(t, uc.got.Total.Equal(decimal.NewFromInt(1350)))

	_, err = client.ProcessSale(ctx, &salesv1.ProcessSaleRequest{Total: "lots"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.ProcessSale(context.Background(), &salesv1.ProcessSaleRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestGRPCGetSale(t *testing.T) {
	verifier := auth.NewTokenVerifier("test-secret")
	customer := int64(12)
	uc := &stubSales{sale: &model.Sale{
		ID:            5,
		ReceiptNumber: "RCP-20260301-AAAA0000",
		TotalAmount:   decimal.RequireFromString("900"),
		PaymentMethod: model.PaymentCash,
		CustomerID:    &customer,
		Status:        model.SaleStatusCompleted,
		Details: []model.SaleDetail{
			{SaleID: 5, LineNo: 1, PartID: 2, Quantity: 2, PriceAtSale: decimal.RequireFromString("450")},
		},
	}}
	client := dialSaleService(t, uc, verifier)

	token, err := verifier.Issue(auth.Actor{UserID: 1, Role: model.RoleManager}, time.Hour)
	require.NoError(t, err)
	ctx := metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+token)

	s, err := client.GetSale(ctx, &salesv1.GetSaleRequest{Id: 5})
	require.NoError(t, err)
	assert.Equal(t, "900.00", s.TotalAmount)
	assert.Equal(t, int64(12), s.CustomerId)
	assert.Equal(t, "completed", s.Status)
	require.Len(t, s.Details, 1)
	assert.Equal(t, "900.00", s.Details[0].Subtotal)

	_, err = client.GetSale(ctx, &salesv1.GetSaleRequest{Id: 99})
	assert.Equal(t, codes.NotFound, status.Code(err))
}
