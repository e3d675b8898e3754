package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-sales-service/internal/audit"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/httpx"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

type AuditHandler struct {
	recorder audit.Recorder
	logger   logger.ZapLogger
}

func NewAuditHandler(recorder audit.Recorder, log logger.ZapLogger) *AuditHandler {
	return &AuditHandler{recorder: recorder, logger: log}
}

func (h *AuditHandler) Routes(r chi.Router) {
	r.Get("/audit-logs", h.list)
}

func (h *AuditHandler) list(w http.ResponseWriter, r *http.Request) {
	if !auth.HasRole(r.Context(), model.RoleAdmin) {
		httpx.Error(w, h.logger, apperror.Forbidden("only admins can view the audit trail"))
		return
	}

	logs, err := h.recorder.ListRecent(r.Context(), httpx.QueryInt(r, "limit", audit.DefaultListLimit))
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"logs": logs})
}
