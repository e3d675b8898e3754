package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/notification"
	"github.com/fekuna/omnipos-sales-service/internal/notification/dto"
	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/httpx"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

type NotificationHandler struct {
	uc     notification.UseCase
	logger logger.ZapLogger
}

func NewNotificationHandler(uc notification.UseCase, log logger.ZapLogger) *NotificationHandler {
	return &NotificationHandler{uc: uc, logger: log}
}

// Routes mounts the caller's inbox under /api/notifications.
func (h *NotificationHandler) Routes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.list)
		r.Delete("/", h.clearAll)
		r.Get("/unread-count", h.unreadCount)
		r.Post("/read-all", h.markAllRead)
		r.Post("/test", h.sendTest)
		r.Post("/{id}/read", h.markRead)
		r.Delete("/{id}", h.delete)
	})
}

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		httpx.Error(w, h.logger, apperror.Unauthorized("authentication required"))
		return
	}

	filters := &dto.ListFilters{
		UserID:     actor.UserID,
		UnreadOnly: r.URL.Query().Get("unread_only") == "true",
		Page:       httpx.QueryInt(r, "page", 1),
		PerPage:    httpx.QueryInt(r, "per_page", 20),
	}
	items, total, err := h.uc.List(r.Context(), filters)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	unread, err := h.uc.UnreadCount(r.Context(), actor.UserID)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}

	httpx.OK(w, http.StatusOK, httpx.Envelope{
		"notifications": items,
		"total":         total,
		"page":          filters.Page,
		"per_page":      filters.PerPage,
		"unread_count":  unread,
	})
}

func (h *NotificationHandler) unreadCount(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		httpx.Error(w, h.logger, apperror.Unauthorized("authentication required"))
		return
	}
	n, err := h.uc.UnreadCount(r.Context(), actor.UserID)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"count": n})
}

func (h *NotificationHandler) markRead(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(userID, id int64) error {
		return h.uc.MarkRead(r.Context(), userID, id)
	})
}

func (h *NotificationHandler) delete(w http.ResponseWriter, r *http.Request) {
	h.withID(w, r, func(userID, id int64) error {
		return h.uc.Delete(r.Context(), userID, id)
	})
}

func (h *NotificationHandler) markAllRead(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		httpx.Error(w, h.logger, apperror.Unauthorized("authentication required"))
		return
	}
	n, err := h.uc.MarkAllRead(r.Context(), actor.UserID)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"updated": n})
}

func (h *NotificationHandler) clearAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		httpx.Error(w, h.logger, apperror.Unauthorized("authentication required"))
		return
	}
	n, err := h.uc.ClearAll(r.Context(), actor.UserID)
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.Envelope{"deleted": n})
}

func (h *NotificationHandler) withID(w http.ResponseWriter, r *http.Request, fn func(userID, id int64) error) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		httpx.Error(w, h.logger, apperror.Unauthorized("authentication required"))
		return
	}
	id, err := httpx.PathID(r, "id")
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	if err := fn(actor.UserID, id); err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusOK, nil)
}

type testRequest struct {
	Title   string                 `json:"title"`
	Message string                 `json:"message"`
	Type    model.NotificationType `json:"type"`
}

// sendTest drops a sample notification into the calling admin's inbox.
func (h *NotificationHandler) sendTest(w http.ResponseWriter, r *http.Request) {
	actor, ok := auth.GetActor(r.Context())
	if !ok {
		httpx.Error(w, h.logger, apperror.Unauthorized("authentication required"))
		return
	}
	if actor.Role != model.RoleAdmin {
		httpx.Error(w, h.logger, apperror.Forbidden("admin access required"))
		return
	}

	req := testRequest{Title: "Test Notification", Message: "This is a test notification", Type: model.NotificationInfo}
	if r.ContentLength != 0 {
		if err := httpx.Decode(r, &req); err != nil {
			httpx.Error(w, h.logger, err)
			return
		}
	}

	n, err := h.uc.Notify(r.Context(), actor.UserID, dto.NotifyInput{
		Title:    req.Title,
		Message:  req.Message,
		Type:     req.Type,
		Category: "system",
	})
	if err != nil {
		httpx.Error(w, h.logger, err)
		return
	}
	httpx.OK(w, http.StatusCreated, httpx.Envelope{"notification": n})
}
