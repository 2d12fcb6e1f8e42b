package messaging

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("messaging: publisher closed")

// Publisher sends messages to a destination (topic or subject).
type Publisher interface {
	io.Closer
	Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error)
}

// OutgoingMessage is a broker-agnostic message.
type OutgoingMessage struct {
	Body []byte

	// Key drives Kafka partitioning.
	Key []byte

	// Headers travel as Kafka headers, NATS headers or Pub/Sub attributes.
	// NSQ has no header support and drops them.
	Headers []Header

	// OrderingKey is used by Pub/Sub when message ordering is enabled.
	OrderingKey string
}

type Header struct {
	Key   string
	Value []byte
}

// PublishResult carries what the broker reports about an accepted message.
type PublishResult struct {
	MessageID string
	Topic     string
	Timestamp time.Time
}
