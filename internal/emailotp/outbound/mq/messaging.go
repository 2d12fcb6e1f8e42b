package mq

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/lhaden/authgate/internal/emailotp/usecase"
	"github.com/lhaden/authgate/internal/pkg/instrument"
	"github.com/lhaden/authgate/internal/pkg/messaging"
	"github.com/lhaden/authgate/internal/shared/event"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const keyOfCorrelationID string = "X-Correlation-ID"

type Messaging struct {
	client      messaging.Publisher
	ins         instrument.Instrumentation
	destination string
}

// NewMessaging publishes to destination, or to event.EmailVerifiedDestination
// when it is empty.
func NewMessaging(client messaging.Publisher, ins instrument.Instrumentation, destination string) *Messaging {
	if destination == "" {
		destination = event.EmailVerifiedDestination
	}

	return &Messaging{client: client, ins: ins, destination: destination}
}

func (m *Messaging) PublishEmailVerified(ctx context.Context, msg usecase.EmailVerifiedEvent) error {
	ctx, span := m.ins.Tracer("emailotp.outbound.mq").Start(ctx, "PublishEmailVerified")
	defer span.End()

	cID := instrument.GetCorrelationID(ctx)
	body, err := json.Marshal(event.EmailVerifiedMessage{
		ID:            msg.ID,
		Email:         msg.Email,
		NewUser:       msg.NewUser,
		VerifiedAt:    msg.VerifiedAt.Unix(),
		CorrelationID: cID,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	res, err := m.client.Publish(ctx, m.destination, messaging.OutgoingMessage{
		Body:    body,
		Key:     []byte(msg.Email),
		Headers: []messaging.Header{{Key: keyOfCorrelationID, Value: []byte(cID)}},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	span.SetAttributes(attribute.String("messaging.message.id", res.MessageID))
	slog.DebugContext(ctx, "email verified event published", "destination", m.destination, "message_id", res.MessageID)

	return nil
}
