package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fekuna/omnipos-sales-service/internal/audit"
	"github.com/fekuna/omnipos-sales-service/internal/audit/repository"
	"github.com/fekuna/omnipos-sales-service/internal/audit/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/testutil"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

func TestList_AdminOnly(t *testing.T) {
	db := testutil.NewDB(t)
	rec := usecase.NewRecorder(repository.NewPGRepository(db), logger.NewNop())
	rec.Record(context.Background(), audit.Entry{Action: model.AuditLogin, EntityType: "staff"})
	h := NewAuditHandler(rec, logger.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/audit-logs", nil)
	w := httptest.NewRecorder()
	h.list(w, req.WithContext(auth.WithActor(req.Context(), auth.Actor{UserID: 3, Role: model.RoleManager})))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	h.list(w, req.WithContext(auth.WithActor(req.Context(), auth.Actor{UserID: 1, Role: model.RoleAdmin})))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action_type":"login"`)
}
