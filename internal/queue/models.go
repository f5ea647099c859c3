package queue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Entry is one write waiting to be replayed against its endpoint.
type Entry struct {
	ID         uuid.UUID       `json:"id"`
	Method     string          `json:"method"`
	Path       string          `json:"path"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Actor      string          `json:"actor,omitempty"`
	RequestID  string          `json:"requestId,omitempty"`
	RetryCount int             `json:"retryCount"`
	EnqueuedAt time.Time       `json:"enqueuedAt"`
	LastError  string          `json:"lastError,omitempty"`
}

// Sender replays an entry against the live endpoint.
type Sender interface {
	Send(ctx context.Context, e Entry) error
}

type SenderFunc func(ctx context.Context, e Entry) error

func (f SenderFunc) Send(ctx context.Context, e Entry) error {
	return f(ctx, e)
}
