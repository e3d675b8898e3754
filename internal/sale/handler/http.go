package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/sale/dto"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/httpx"
)

// Routes mounts the checkout endpoints under /api/sales.
func (h *SaleHandler) Routes(r chi.Router) {
	r.Route("/sales", func(r chi.Router) {
		r.Post("/", h.httpProcessSale)
		r.Get("/", h.httpListSales)
		r.Get("/{id}", h.httpGetSale)
	})
}

type processSaleRequest struct {
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	Items         []dto.CartItem  `json:"items"`
	CustomerID    *int64          `json:"customerId"`
	Notes         string          `json:"notes"`
}

func (h *SaleHandler) httpProcessSale(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		httpx.Error(w, h.logger, apperror.Unauthorized("authentication required"))
		return
	}

	var req processSaleRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}

	res, err := h.uc.ProcessSale(r.Context(), &dto.ProcessSaleInput{
		Items:         req.Items,
		Total:         req.Total,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		StaffID:       actor.UserID,
		CustomerID:    req.CustomerID,
		Notes:         req.Notes,
	})
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}

	httpx.OK(w, http.StatusOK, httpx.Envelope{
		"message":       saleProcessedMessage,
		"saleId":        res.SaleID,
		"receiptNumber": res.ReceiptNumber,
	})
}

func (h *SaleHandler) httpGetSale(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	s, err := h.uc.GetSale(r.Context(), id)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"sale": s})
}

func (h *SaleHandler) httpListSales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := &dto.SaleFilters{
		Query:    q.Get("q"),
		Page:     httpx.QueryInt(r, "page", 1),
		PageSize: httpx.QueryInt(r, "limit", 20),
	}
	if v := q.Get("staff_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Error(w, h.logger, apperror.Validation("invalid staff_id"))
			return
		}
		filters.StaffID = id
	}
	for name, dst := range map[string]**time.Time{"from": &filters.From, "to": &filters.To} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			httpx.Error(w, h.logger, apperror.Validation("invalid %s, expected RFC 3339", name))
			return
		}
		t = t.UTC()
		*dst = &t
	}

	items, total, err := h.uc.ListSales(r.Context(), filters)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"sales": items, "total": total})
}
