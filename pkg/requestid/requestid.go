package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

type contextKey string

const (
	RequestIDKey contextKey = "request_id"

	// Header carries the id between the resolver and the simulator so that a
	// fallback or a queued replay can be correlated with the original call.
	Header = "X-Request-Id"
)

func Generate() string {
	return uuid.New().String()
}

func ToContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// FromContext returns an empty string when no id was attached.
func FromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func FromContextPtr(ctx context.Context) *string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return &requestID
	}
	return nil
}

// Ensure returns ctx unchanged if it already carries an id, otherwise a child
// context with a fresh one.
func Ensure(ctx context.Context) (context.Context, string) {
	if id := FromContext(ctx); id != "" {
		return ctx, id
	}
	id := Generate()
	return ToContext(ctx, id), id
}

func FromRequest(r *http.Request) string {
	return FromContext(r.Context())
}
