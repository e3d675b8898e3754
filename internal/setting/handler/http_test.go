package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditrepo "github.com/fekuna/omnipos-sales-service/internal/audit/repository"
	auditusecase "github.com/fekuna/omnipos-sales-service/internal/audit/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/auth"
	"github.com/fekuna/omnipos-sales-service/internal/model"
	"github.com/fekuna/omnipos-sales-service/internal/setting"
	"github.com/fekuna/omnipos-sales-service/internal/setting/repository"
	"github.com/fekuna/omnipos-sales-service/internal/setting/usecase"
	"github.com/fekuna/omnipos-sales-service/internal/testutil"
	"github.com/fekuna/omnipos-sales-service/pkg/database"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

func newRouter(t *testing.T, role string) (http.Handler, setting.UseCase, func() int) {
	t.Helper()
	db := testutil.NewDB(t)
	uc := usecase.NewSettingUseCase(repository.NewPGRepository(db), database.NewTransactor(db), logger.NewNop())
	rec := auditusecase.NewRecorder(auditrepo.NewPGRepository(db), logger.NewNop())

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithActor(req.Context(), auth.Actor{UserID: 1, Role: role})))
		})
	})
	NewSettingHandler(uc, rec, logger.NewNop()).Routes(r)

	audits := func() int { return testutil.Count(t, db, `SELECT count(*) FROM audit_logs`) }
	return r, uc, audits
}

func TestSet_AdminUpdatesAndAudits(t *testing.T) {
	r, uc, audits := newRouter(t, model.RoleAdmin)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/settings/sales/high_value_sale_threshold", strings.NewReader(`{"value":"8000"}`)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, "8000", uc.Decimal(context.Background(), setting.CategorySales, setting.KeyHighValueSaleThreshold).String())
	assert.Equal(t, 1, audits())
}

func TestSet_RejectsNonAdmin(t *testing.T) {
	r, _, audits := newRouter(t, model.RoleManager)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/settings/sales/milestone_interval", strings.NewReader(`{"value":"5"}`)))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, audits())
}

func TestGet_ReturnsDefault(t *testing.T) {
	r, _, _ := newRouter(t, model.RoleStaff)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings/inventory/low_stock_threshold", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"is_default":true`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings/inventory/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportImport_ManagerAccess(t *testing.T) {
	r, uc, audits := newRouter(t, model.RoleManager)
	_, err := uc.Set(context.Background(), setting.CategorySales, setting.KeyMilestoneInterval, "25", nil)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings/export", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var exported struct {
		Success    bool             `json:"success"`
		ExportedBy int64            `json:"exported_by"`
		Settings   setting.Document `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &exported))
	assert.True(t, exported.Success)
	assert.Equal(t, int64(1), exported.ExportedBy)
	assert.Equal(t, "25", exported.Settings[setting.CategorySales][setting.KeyMilestoneInterval].Value)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/settings/import",
		strings.NewReader(`{"settings":{"sales":{"milestone_interval":{"value":"50","type":"number"}}}}`)))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 50, uc.Int(context.Background(), setting.CategorySales, setting.KeyMilestoneInterval))
	assert.Equal(t, 1, audits())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/settings/import", strings.NewReader(`{"version":1}`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport_RejectsStaff(t *testing.T) {
	r, _, _ := newRouter(t, model.RoleStaff)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings/export", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
