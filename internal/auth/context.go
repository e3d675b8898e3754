package auth

import (
	"context"

	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
)

// Actor is the authenticated identity behind a request.
type Actor struct {
	UserID int64
	Name   string
	Role   string
}

// Origin describes where a request came from, for the audit trail.
type Origin struct {
	IPAddress string
	UserAgent string
}

type actorKey struct{}
type originKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

func GetActor(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

func WithOrigin(ctx context.Context, o Origin) context.Context {
	return context.WithValue(ctx, originKey{}, o)
}

// GetOrigin prefers a value set by middleware and falls back to gRPC
// metadata and peer info.
func GetOrigin(ctx context.Context) Origin {
	if o, ok := ctx.Value(originKey{}).(Origin); ok {
		return o
	}

	var o Origin
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if val := md.Get("user-agent"); len(val) > 0 {
			o.UserAgent = val[0]
		}
		if val := md.Get("x-forwarded-for"); len(val) > 0 {
			o.IPAddress = val[0]
		}
	}
	if o.IPAddress == "" {
		if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
			o.IPAddress = p.Addr.String()
		}
	}
	return o
}

// HasRole is the capability gate run before privileged operations.
func HasRole(ctx context.Context, roles ...string) bool {
	a, ok := GetActor(ctx)
	if !ok {
		return false
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}
