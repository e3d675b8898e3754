package handler

import (
	"context"

	salesv1 "github.com/fekuna/omnipos-sales-service/api/salesv1"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/inventory"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/setting"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
	"go.uber.org/zap"
)

type InventoryHandler struct {
	uc       inventory.UseCase
	settings setting.UseCase
	logger   logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, settings setting.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:       uc,
		settings: settings,
		logger:   log,
	}
}

var _ salesv1.InventoryServiceServer = (*InventoryHandler)(nil)

func (h *InventoryHandler) ListLowStock(ctx context.Context, req *salesv1.ListLowStockRequest) (*salesv1.ListLowStockResponse, error) {
	threshold := int(req.Threshold)
	if threshold <= 0 {
		threshold = h.settings.Int(ctx, setting.CategoryInventory, setting.KeyLowStockThreshold)
	}

	items, count, err := h.uc.ListLowStock(ctx, threshold, int(req.Page), int(req.PageSize))
	if err != nil {
		return nil, h.statusError(err)
	}

	entries := make([]*salesv1.Part, len(items))
	for i := range items {
		entries[i] = mapPartToProto(&items[i])
	}

	return &salesv1.ListLowStockResponse{
		Items:     entries,
		Total:     int32(count),
		Threshold: int32(threshold),
	}, nil
}

func (h *InventoryHandler) Restock(ctx context.Context, req *salesv1.RestockRequest) (*salesv1.Part, error) {
	if !auth.HasRole(ctx, model.RoleAdmin, model.RoleManager) {
		return nil, h.statusError(apperror.Forbidden("only managers and admins can restock parts"))
	}

	input := &dto.RestockInput{
		PartID:      req.PartId,
		Quantity:    int(req.Quantity),
		Notes:       req.Notes,
		ReferenceID: req.ReferenceId,
	}
	if actor, ok := auth.GetActor(ctx); ok {
		input.UserID = &actor.UserID
	}

	p, err := h.uc.Restock(ctx, input)
	if err != nil {
		return nil, h.statusError(err)
	}
	return mapPartToProto(p), nil
}

func (h *InventoryHandler) ListMovements(ctx context.Context, req *salesv1.ListMovementsRequest) (*salesv1.ListMovementsResponse, error) {
	filters := &dto.MovementFilters{
		PartID:       req.PartId,
		MovementType: req.MovementType,
		Page:         int(req.Page),
		PageSize:     int(req.PageSize),
	}

	mvs, count, err := h.uc.ListMovements(ctx, filters)
	if err != nil {
		return nil, h.statusError(err)
	}

	protoMovements := make([]*salesv1.InventoryMovement, len(mvs))
	for i := range mvs {
		protoMovements[i] = mapMovementToProto(&mvs[i])
	}

	return &salesv1.ListMovementsResponse{
		Movements: protoMovements,
		Total:     int32(count),
	}, nil
}

func (h *InventoryHandler) statusError(err error) error {
	if apperror.KindOf(err) == apperror.KindPersistence {
		h.logger.Error("inventory request failed", zap.Error(apperror.Cause(err)))
	}
	return apperror.GRPCStatus(err)
}

func mapPartToProto(p *model.Part) *salesv1.Part {
	if p == nil {
		return nil
	}

	out := &salesv1.Part{
		Id:            p.ID,
		Name:          p.Name,
		Price:         p.Price.StringFixed(2),
		StockQuantity: int32(p.StockQuantity),
		UpdatedAt:     p.UpdatedAt,
	}
	if p.PartType != nil {
		out.PartType = *p.PartType
	}
	if p.Brand != nil {
		out.Brand = *p.Brand
	}
	return out
}

func mapMovementToProto(m *model.InventoryMovement) *salesv1.InventoryMovement {
	if m == nil {
		return nil
	}
	refType := ""
	if m.ReferenceType != nil {
		refType = *m.ReferenceType
	}
	refID := ""
	if m.ReferenceID != nil {
		refID = *m.ReferenceID
	}
	var createdBy int64
	if m.CreatedBy != nil {
		createdBy = *m.CreatedBy
	}

	return &salesv1.InventoryMovement{
		Id:             m.ID,
		PartId:         m.PartID,
		MovementType:   string(m.MovementType),
		QuantityChange: int32(m.QuantityChange),
		QuantityBefore: int32(m.QuantityBefore),
		QuantityAfter:  int32(m.QuantityAfter),
		ReferenceType:  refType,
		ReferenceId:    refID,
		Notes:          m.Notes,
		CreatedBy:      createdBy,
		CreatedAt:      m.CreatedAt,
	}
}
