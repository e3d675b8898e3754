package auth

import (
	"context"
	"encoding/json"
	"net"
	"net/http"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Middleware resolves the bearer token into an Actor for HTTP handlers.
func Middleware(v *TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := v.Verify(r.Header.Get("Authorization"))
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(map[string]interface{}{"success": false, "message": "authentication required"})
				return
			}

			ip := r.RemoteAddr
			if host, _, err := net.SplitHostPort(ip); err == nil {
				ip = host
			}
			if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
				ip = fwd
			}

			ctx := WithActor(r.Context(), actor)
			ctx = WithOrigin(ctx, Origin{IPAddress: ip, UserAgent: r.UserAgent()})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UnaryInterceptor resolves the "authorization" metadata into an Actor.
func UnaryInterceptor(v *TokenVerifier) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		var token string
		if val := md.Get("authorization"); len(val) > 0 {
			token = val[0]
		}

		actor, err := v.Verify(token)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "authentication required")
		}

		ctx = WithActor(ctx, actor)
		ctx = WithOrigin(ctx, GetOrigin(ctx))
		return handler(ctx, req)
	}
}
