package messaging

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestNewFromDriver(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		opts    FactoryOptions
		wantErr error
	}{
		{name: "noop", driver: "noop"},
		{name: "empty selects noop", driver: ""},
		{name: "unknown", driver: "rabbitmq", wantErr: ErrUnknownDriver},
		{name: "nats without url", driver: "nats", wantErr: ErrNATSURLRequired},
		{name: "kafka without brokers", driver: "kafka", wantErr: ErrKafkaBrokersRequired},
		{name: "nsq without address", driver: "NSQ", wantErr: ErrNSQProducerAddrRequired},
		{name: "pubsub without project", driver: "google-pubsub", wantErr: ErrPubSubProjectIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pub, err := NewFromDriver(context.Background(), tt.driver, tt.opts)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewFromDriver() error = %v, want %v", err, tt.wantErr)
			}
			if err == nil {
				_ = pub.Close()
			}
		})
	}
}

func TestNoop_Publish(t *testing.T) {
	// Arrange
	n := NewNoop()

	// Act
	res, err := n.Publish(context.Background(), "emailotp.verified", OutgoingMessage{Body: []byte("{}")})
	_ = n.Close()
	_, errClosed := n.Publish(context.Background(), "emailotp.verified", OutgoingMessage{})

	// Assert
	if err != nil || res.Topic != "emailotp.verified" {
		t.Fatalf("Publish() = %+v, %v", res, err)
	}
	if !errors.Is(errClosed, ErrClosed) {
		t.Fatalf("Publish() after Close error = %v, want %v", errClosed, ErrClosed)
	}
}

func TestKafkaMessage(t *testing.T) {
	now := time.Unix(1000, 0)
	msg := OutgoingMessage{
		Body:    []byte("body"),
		Key:     []byte("alice@example.com"),
		Headers: []Header{{Key: "X-Correlation-ID", Value: []byte("cid")}, {Key: "", Value: []byte("dropped")}},
	}

	got := kafkaMessage("emailotp.verified", msg, now)

	if got.Topic != "emailotp.verified" || string(got.Key) != "alice@example.com" || !got.Time.Equal(now) {
		t.Fatalf("kafkaMessage() = %+v", got)
	}
	if len(got.Headers) != 1 || got.Headers[0].Key != "X-Correlation-ID" {
		t.Fatalf("Headers = %+v", got.Headers)
	}
}

func TestHeaderAttributes(t *testing.T) {
	got := headerAttributes([]Header{
		{Key: "event", Value: []byte("v1")},
		{Key: "event", Value: []byte("v2")},
		{Key: "", Value: []byte("x")},
	})

	if want := map[string]string{"event": "v2"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("headerAttributes() = %v, want %v", got, want)
	}
	if headerAttributes(nil) != nil {
		t.Fatal("headerAttributes(nil) != nil")
	}
}
