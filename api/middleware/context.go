package middleware

import (
	"context"

	"github.com/google/uuid"
)

type requestIDKey struct{}

type storeIDKey struct{}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// StoreIDFromContext returns the store the route is scoped to. ok is false
// outside StoreScope.
func StoreIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(storeIDKey{}).(uuid.UUID)
	return id, ok
}

func WithStoreID(ctx context.Context, storeID uuid.UUID) context.Context {
	return context.WithValue(ctx, storeIDKey{}, storeID)
}
