package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
)

func TestTokenRoundTrip(t *testing.T) {
	v := NewTokenVerifier("secret")
	token, err := v.Issue(Actor{UserID: 42, Name: "Juan", Role: "manager"}, time.Hour)
	require.NoError(t, err)

	actor, err := v.Verify("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, Actor{UserID: 42, Name: "Juan", Role: "manager"}, actor)
}

func TestVerify_RejectsWrongSecretAndExpired(t *testing.T) {
	issuer := NewTokenVerifier("a")
	token, err := issuer.Issue(Actor{UserID: 1, Role: "staff"}, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenVerifier("b").Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := issuer.Issue(Actor{UserID: 1, Role: "staff"}, -time.Minute)
	require.NoError(t, err)
	_, err = issuer.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = issuer.Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHasRole(t *testing.T) {
	ctx := context.Background()
	assert.False(t, HasRole(ctx, "admin"))

	ctx = WithActor(ctx, Actor{UserID: 1, Role: "manager"})
	assert.True(t, HasRole(ctx, "admin", "manager"))
	assert.False(t, HasRole(ctx, "admin"))
}

func TestGetOrigin_FromMetadata(t *testing.T) {
	ctx := metadata.NewIncomingContext(context.Background(), metadata.Pairs(
		"user-agent", "grpc-go/1.78", "x-forwarded-for", "10.0.0.5"))

	o := GetOrigin(ctx)
	assert.Equal(t, "10.0.0.5", o.IPAddress)
	assert.Equal(t, "grpc-go/1.78", o.UserAgent)
}

func TestMiddleware(t *testing.T) {
	v := NewTokenVerifier("secret")
	var got Actor
	var origin Origin
	h := Middleware(v)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = GetActor(r.Context())
		origin = GetOrigin(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := v.Issue(Actor{UserID: 9, Role: "staff"}, time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", "pos-terminal")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, int64(9), got.UserID)
	assert.Equal(t, "192.0.2.1", origin.IPAddress)
	assert.Equal(t, "pos-terminal", origin.UserAgent)
}
