package handler

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/salesv1"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/sale"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

const saleProcessedMessage = "Sale processed successfully"

type SaleHandler struct {
	uc     sale.UseCase
	logger logger.ZapLogger
}

func NewSaleHandler(uc sale.UseCase, log logger.ZapLogger) *SaleHandler {
	return &SaleHandler{
		uc:     uc,
		logger: log,
	}
}

var _ salesv1.SaleServiceServer = (*SaleHandler)(nil)

func (h *SaleHandler) ProcessSale(ctx context.Context, req *salesv1.ProcessSaleRequest) (*salesv1.ProcessSaleResponse, error) {
	actor, ok := auth.GetActor(ctx)
	if !ok {
		return nil, h.statusError(apperror.Unauthorized("authentication required"))
	}

	total, err := parseAmount("total", req.Total)
	if err != nil {
		return nil, h.statusError(err)
	}

	input := &dto.ProcessSaleInput{
		Items:         make([]dto.CartItem, len(req.Items)),
		Total:         total,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		StaffID:       actor.UserID,
		Notes:         req.Notes,
	}
	for i, item := range req.Items {
		if item == nil {
			return nil, h.statusError(apperror.Validation("item %d is empty", i+1))
		}
		price, err := parseAmount("price", item.Price)
		if err != nil {
			return nil, h.statusError(err)
		}
		input.Items[i] = dto.CartItem{PartID: item.PartId, Quantity: int(item.Quantity), Price: price}
	}
	if req.CustomerId != 0 {
		input.CustomerID = &req.CustomerId
	}

	res, err := h.uc.ProcessSale(ctx, input)
	if err != nil {
		return nil, h.statusError(err)
	}

	return &salesv1.ProcessSaleResponse{
		SaleId:        res.SaleID,
		ReceiptNumber: res.ReceiptNumber,
		Message:       saleProcessedMessage,
	}, nil
}

func (h *SaleHandler) GetSale(ctx context.Context, req *salesv1.GetSaleRequest) (*salesv1.Sale, error) {
	s, err := h.uc.GetSale(ctx, req.Id)
	if err != nil {
		return nil, h.statusError(err)
	}
	return mapSaleToProto(s), nil
}

func (h *SaleHandler) statusError(err error) error {
	if apperror.KindOf(err) == apperror.KindPersistence {
		h.logger.Error("sale request failed", zap.Error(apperror.Cause(err)))
	}
	return apperror.GRPCStatus(err)
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.Validation("invalid %s %q", field, raw)
	}
	return d, nil
}

func mapSaleToProto(s *model.Sale) *salesv1.Sale {
	if s == nil {
		return nil
	}

	out := &salesv1.Sale{
		Id:            s.ID,
		ReceiptNumber: s.ReceiptNumber,
		SaleDate:      s.SaleDate,
		TotalAmount:   s.TotalAmount.StringFixed(2),
		PaymentMethod: string(s.PaymentMethod),
		StaffId:       s.StaffID,
		Notes:         s.Notes,
		Status:        string(s.Status),
		Details:       make([]*salesv1.SaleDetail, len(s.Details)),
	}
	if s.CustomerID != nil {
		out.CustomerId = *s.CustomerID
	}
	for i, d := range s.Details {
		out.Details[i] = &salesv1.SaleDetail{
			LineNo:      int32(d.LineNo),
			PartId:      d.PartID,
			Quantity:    int32(d.Quantity),
			PriceAtSale: d.PriceAtSale.StringFixed(2),
			Subtotal:    d.Subtotal().StringFixed(2),
		}
	}
	return out
}
