// Package requestcontext carries request-scoped values from middleware to
// services without either side importing the other. Middleware writes the
// caller identity, client metadata, request id and request time; services
// read them through the accessors below.
package requestcontext

import (
	"context"
	"time"

	"petadopt/pkg/domain"
)

type (
	identityKey    struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Identity returns the authenticated caller. ok is false on public routes.
func Identity(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(domain.Identity)
	return identity, ok
}

// IdentityPtr returns the caller or nil, the shape authz checks take.
func IdentityPtr(ctx context.Context) *domain.Identity {
	identity, ok := Identity(ctx)
	if !ok {
		return nil
	}
	return &identity
}

func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// UserID returns the caller's user id, or zero when unauthenticated.
func UserID(ctx context.Context) domain.UserID {
	identity, _ := Identity(ctx)
	return identity.UserID
}

func ClientIP(ctx context.Context) string {
	ip, _ := ctx.Value(clientIPKey{}).(string)
	return ip
}

func UserAgent(ctx context.Context) string {
	ua, _ := ctx.Value(userAgentKey{}).(string)
	return ua
}

func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the time pinned by the request-time middleware, or the wall
// clock outside a request (seeding, background work).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
