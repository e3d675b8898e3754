package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-sales-service/internal/audit"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/setting"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/httpx"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

type SettingHandler struct {
	uc     setting.UseCase
	audit  audit.Recorder
	logger logger.ZapLogger
}

func NewSettingHandler(uc setting.UseCase, recorder audit.Recorder, log logger.ZapLogger) *SettingHandler {
	return &SettingHandler{uc: uc, audit: recorder, logger: log}
}

// Routes mounts /api/settings. Reads are open to any signed-in user, export
// and import need a manager, other writes are admin only.
func (h *SettingHandler) Routes(r chi.Router) {
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{category}/{key}", h.get)
		r.Group(func(r chi.Router) {
			r.Use(requireRole(h.logger, "only managers and admins can export or import settings", model.RoleAdmin, model.RoleManager))
			r.Get("/export", h.export)
			r.Post("/import", h.importSettings)
		})
		r.Group(func(r chi.Router) {
			r.Use(requireRole(h.logger, "only admins can change settings", model.RoleAdmin))
			r.Put("/{category}/{key}", h.set)
			r.Delete("/{category}/{key}", h.delete)
			r.Post("/reset", h.reset)
		})
	})
}

func requireRole(log logger.ZapLogger, denied string, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !auth.HasRole(r.Context(), roles...) {
				httpx.Error(w, log, apperror.Forbidden(denied))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (h *SettingHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.uc.List(r.Context())
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"settings": items})
}

func (h *SettingHandler) get(w http.ResponseWriter, r *http.Request) {
	v, err := h.uc.Get(r.Context(), chi.URLParam(r, "category"), chi.URLParam(r, "key"))
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"setting": v})
}

type setRequest struct {
	Value string `json:"value"`
}

func (h *SettingHandler) set(w http.ResponseWriter, r *http.Request) {
	category, key := chi.URLParam(r, "category"), chi.URLParam(r, "key")

	var req setRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}

	var updatedBy *int64
	if actor, ok := auth.GetActor(r.Context()); ok {
		updatedBy = &actor.UserID
	}

	before, _ := h.uc.Get(r.Context(), category, key)
	s, err := h.uc.Set(r.Context(), category, key, req.Value, updatedBy)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}

	h.audit.Record(r.Context(), audit.Entry{
		Action:     model.AuditUpdate,
		EntityType: "settings",
		EntityID:   &s.ID,
		Before:     map[string]string{"category": category, "key": key, "value": before.Raw},
		After:      map[string]string{"category": category, "key": key, "value": s.SettingValue},
	})
	httpx.OK(w, http.StatusOK, httpx.Envelope{"message": "Setting updated", "setting": s})
}

func (h *SettingHandler) delete(w http.ResponseWriter, r *http.Request) {
	category, key := chi.URLParam(r, "category"), chi.URLParam(r, "key")
	if err := h.uc.Delete(r.Context(), category, key); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	h.audit.Record(r.Context(), audit.Entry{
		Action:     model.AuditDelete,
		EntityType: "settings",
		Before:     map[string]string{"category": category, "key": key},
	})
	httpx.OK(w, http.StatusOK, httpx.Envelope{"message": "Setting deleted"})
}

func (h *SettingHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.uc.Reset(r.Context()); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	h.audit.Record(r.Context(), audit.Entry{
		Action:     model.AuditUpdate,
		EntityType: "settings",
		After:      map[string]string{"reset": "defaults"},
	})
	httpx.OK(w, http.StatusOK, httpx.Envelope{"message": "Settings reset to defaults"})
}

func (h *SettingHandler) export(w http.ResponseWriter, r *http.Request) {
	doc, err := h.uc.Export(r.Context())
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}

	out := httpx.Envelope{"exported_at": time.Now().UTC(), "settings": doc}
	if actor, ok := auth.GetActor(r.Context()); ok {
		out["exported_by"] = actor.UserID
	}
	httpx.OK(w, http.StatusOK, out)
}

type importRequest struct {
	Settings setting.Document `json:"settings"`
}

func (h *SettingHandler) importSettings(w http.ResponseWriter, r *http.Request) {
	var req importRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	if req.Settings == nil {
		httpx.Error(w, h.logger, apperror.Validation("invalid settings file format"))
		return
	}

	var updatedBy *int64
	if actor, ok := auth.GetActor(r.Context()); ok {
		updatedBy = &actor.UserID
	}

	n, err := h.uc.Import(r.Context(), req.Settings, updatedBy)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}

	h.audit.Record(r.Context(), audit.Entry{
		Action:     model.AuditUpdate,
		EntityType: "settings",
		After:      map[string]int{"imported": n},
	})
	httpx.OK(w, http.StatusOK, httpx.Envelope{"message": "Settings imported", "imported": n})
}
