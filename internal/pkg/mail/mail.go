package mail

import (
	"context"
	"io"
)

// Message is a single-part plain-text email.
type Message struct {
	// From overrides the configured default sender.
	From     string
	To       []string
	Subject  string
	TextBody string
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
