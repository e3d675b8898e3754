package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   codes.Code
	}{
		{"validation", Validation("cart is empty"), http.StatusBadRequest, codes.InvalidArgument},
		{"not found", NotFound("part %d not found", 3), http.StatusNotFound, codes.NotFound},
		{"conflict", Conflict("busy"), http.StatusConflict, codes.FailedPrecondition},
		{"forbidden", Forbidden("no"), http.StatusForbidden, codes.PermissionDenied},
		{"persistence", Persistence("failed to process sale", errors.New("disk full")), http.StatusInternalServerError, codes.Internal},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, codes.Internal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
			assert.Equal(t, tt.code, GRPCCode(tt.err))
		})
	}
}

func TestPersistenceHidesCause(t *testing.T) {
	cause := errors.New("pq: connection reset")
	err := fmt.Errorf("wrapped: %w", Persistence("failed to process sale", cause))

	assert.Equal(t, "failed to process sale", PublicMessage(err))
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsKind(err, KindPersistence))
}

func TestPublicMessage_Unclassified(t *testing.T) {
	assert.Equal(t, "internal server error", PublicMessage(errors.New("secret detail")))
	assert.Equal(t, "cart is empty", PublicMessage(Validation("cart is empty")))
}

func TestOrPersistence(t *testing.T) {
	assert.Nil(t, OrPersistence(nil, "x"))

	wrapped := fmt.Errorf("wrapped: %w", NotFound("part %d not found", 4))
	assert.Equal(t, wrapped, OrPersistence(wrapped, "x"))
	assert.True(t, IsKind(OrPersistence(wrapped, "x"), KindNotFound))

	err := OrPersistence(errors.New("disk full"), "failed to save")
	assert.True(t, IsKind(err, KindPersistence))
	assert.Equal(t, "failed to save", err.Error())
}

func TestGRPCStatus(t *testing.T) {
	st, ok := status.FromError(GRPCStatus(Persistence("failed to process sale", errors.New("deadlock"))))
	assert.True(t, ok)
	assert.Equal(t, codes.Internal, st.Code())
	assert.Equal(t, "failed to process sale", st.Message())
}

func TestCause(t *testing.T) {
	cause := errors.New("connection reset")
	assert.Equal(t, cause, Cause(Persistence("failed to load part", cause)))

	nf := NotFound("part 1 not found")
	assert.Equal(t, nf, Cause(nf))
}
