package messaging

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Noop accepts every message and only logs it.
type Noop struct {
	closed atomic.Bool
}

func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if n.closed.Load() {
		return PublishResult{}, ErrClosed
	}

	slog.DebugContext(ctx, "noop publish", "destination", destination, "bytes", len(msg.Body))
	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}

func (n *Noop) Close() error {
	n.closed.Store(true)
	return nil
}
