package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

func TestError_HidesPersistenceCause(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, logger.NewNop(), apperror.Persistence("failed to process sale", errors.New("pq: deadlock detected")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"failed to process sale"}`, rec.Body.String())
}

func TestError_Validation(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, logger.NewNop(), apperror.Validation("cart is empty"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"success":false,"message":"cart is empty"}`, rec.Body.String())
}

func TestOK_MergesFields(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, http.StatusCreated, Envelope{"saleId": 7})

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"saleId":7}`, rec.Body.String())
}

func TestQueryInt(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?page=3&limit=abc&neg=-1", nil)
	assert.Equal(t, 3, QueryInt(r, "page", 1))
	assert.Equal(t, 20, QueryInt(r, "limit", 20))
	assert.Equal(t, 5, QueryInt(r, "neg", 5))
	assert.Equal(t, 9, QueryInt(r, "missing", 9))
}
