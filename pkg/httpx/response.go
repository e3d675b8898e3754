// Package httpx holds the JSON envelope shared by the HTTP handlers.
package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-sales-service/pkg/apperror"
	"github.com/fekuna/omnipos-sales-service/pkg/logger"
)

type Envelope map[string]any

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	body, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"success":false,"message":"encode_error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// OK writes {"success": true, ...fields}.
func OK(w http.ResponseWriter, status int, fields Envelope) {
	out := Envelope{"success": true}
	for k, v := range fields {
		out[k] = v
	}
	JSON(w, status, out)
}

// Error maps err to its status and public message. Persistence causes are
// logged and never written to the client.
func Error(w http.ResponseWriter, log logger.ZapLogger, err error) {
	status := apperror.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("message", err.Error()), zap.Error(apperror.Cause(err)))
	}
	JSON(w, status, Envelope{"success": false, "message": apperror.PublicMessage(err)})
}

func Decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperror.Validation("invalid request body")
	}
	return nil
}

// QueryInt reads a positive integer query parameter, or def when absent or invalid.
func QueryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

// PathID parses a positive integer URL parameter.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Validation("invalid %s", name)
	}
	return id, nil
}
