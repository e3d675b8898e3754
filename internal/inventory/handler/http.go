package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/setting"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/httpx"
)

// Routes mounts the inventory endpoints under /api/inventory.
func (h *InventoryHandler) Routes(r chi.Router) {
	r.Route("/inventory", func(r chi.Router) {
		r.Get("/low-stock", h.httpListLowStock)
		r.Get("/movements", h.httpListMovements)
		r.Get("/parts/{id}", h.httpGetPart)
		r.Post("/parts", h.httpCreatePart)
		r.Post("/parts/{id}/restock", h.httpRestock)
	})
}

func (h *InventoryHandler) httpListLowStock(w http.ResponseWriter, r *http.Request) {
	threshold := httpx.QueryInt(r, "threshold", 0)
	if threshold == 0 {
		threshold = h.settings.Int(r.Context(), setting.CategoryInventory, setting.KeyLowStockThreshold)
	}

	items, total, err := h.uc.ListLowStock(r.Context(), threshold, httpx.QueryInt(r, "page", 1), httpx.QueryInt(r, "limit", 50))
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"parts": items, "total": total, "threshold": threshold})
}

func (h *InventoryHandler) httpListMovements(w http.ResponseWriter, r *http.Request) {
	partID, _ := strconv.ParseInt(r.URL.Query().Get("part_id"), 10, 64)
	items, total, err := h.uc.ListMovements(r.Context(), &dto.MovementFilters{
		PartID:       partID,
		MovementType: r.URL.Query().Get("type"),
		Page:         httpx.QueryInt(r, "page", 1),
		PageSize:     httpx.QueryInt(r, "limit", 50),
	})
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"movements": items, "total": total})
}

func (h *InventoryHandler) httpGetPart(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	p, err := h.uc.GetPart(r.Context(), id)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"part": p})
}

type createPartRequest struct {
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	PartType      *string         `json:"part_type"`
	Brand         *string         `json:"brand"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
}

func (h *InventoryHandler) httpCreatePart(w http.ResponseWriter, r *http.Request) {
	if !auth.HasRole(r.Context(), model.RoleAdmin, model.RoleManager) {
		httpx.Error(w, h.logger, apperror.Forbidden("only managers and admins can add parts"))
		return
	}

	var req createPartRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}

	p, err := h.uc.CreatePart(r.Context(), &dto.CreatePartInput{
		Name:          req.Name,
		Description:   req.Description,
		PartType:      req.PartType,
		Brand:         req.Brand,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusCreated, httpx.Envelope{"part": p})
}

type restockRequest struct {
	Quantity    int    `json:"quantity"`
	Notes       string `json:"notes"`
	ReferenceID string `json:"reference_id"`
}

func (h *InventoryHandler) httpRestock(w http.ResponseWriter, r *http.Request) {
	if !auth.HasRole(r.Context(), model.RoleAdmin, model.RoleManager) {
		httpx.Error(w, h.logger, apperror.Forbidden("only managers and admins can restock parts"))
		return
	}

	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	var req restockRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}

	input := &dto.RestockInput{PartID: id, Quantity: req.Quantity, Notes: req.Notes, ReferenceID: req.ReferenceID}
	if actor, ok := auth.GetActor(r.Context()); ok {
		input.UserID = &actor.UserID
	}

	p, err := h.uc.Restock(r.Context(), input)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"message": "Stock updated", "part": p})
}
