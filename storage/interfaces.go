package storage

import (
	"context"
	"time"

	"github.com/poiesic/toolrank/core"
)

// CallLogRepository provides append and bounded-read access to the
// execution trace log. Implementations must be thread-safe.
type CallLogRepository interface {
	// AppendCalls appends one or more call events to the log.
	// For events with Id=0, a content-based ID is generated.
	// Sets InsertedAt if not already set.
	// Returns the events with IDs and timestamps populated.
	AppendCalls(ctx context.Context, events ...*core.CallEvent) ([]*core.CallEvent, error)

	// GetCallsSince retrieves events with Timestamp >= since,
	// ordered by session and then by timestamp within each session.
	GetCallsSince(ctx context.Context, since time.Time) ([]*core.CallEvent, error)

	// Close closes the repository and releases resources.
	Close() error
}
