package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/segmentio/kafka-go"
)

var (
	ErrKafkaTopicRequired   = errors.New("messaging: kafka topic is required")
	ErrKafkaBrokersRequired = errors.New("messaging: kafka brokers are required")
)

type KafkaConfig struct {
	Brokers []string
	// BatchTimeout bounds how long a write waits to fill a batch. Events are
	// published one at a time, so this is kept low.
	BatchTimeout time.Duration
	// Transport overrides the default transport, e.g. for SASL or TLS.
	Transport kafka.RoundTripper
}

// Kafka publishes through one writer shared by all topics; the topic is set
// per message.
type Kafka struct {
	writer *kafka.Writer
	closed atomic.Bool
}

func NewKafka(cfg KafkaConfig) (*Kafka, error) {
	if len(cfg.Brokers) == 0 {
		return nil, ErrKafkaBrokersRequired
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 10 * time.Millisecond
	}

	return &Kafka{writer: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: batchTimeout,
		Transport:    cfg.Transport,
	}}, nil
}

func (k *Kafka) Close() error {
	if k.closed.Swap(true) {
		return nil
	}
	return k.writer.Close()
}

func (k *Kafka) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if destination == "" {
		return PublishResult{}, ErrKafkaTopicRequired
	}
	if k.closed.Load() {
		return PublishResult{}, ErrClosed
	}

	kmsg := kafkaMessage(destination, msg, time.Now())
	if err := k.writer.WriteMessages(ctx, kmsg); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: kafka publish: %w", err)
	}

	return PublishResult{Topic: destination, Timestamp: kmsg.Time}, nil
}

func kafkaMessage(topic string, msg OutgoingMessage, now time.Time) kafka.Message {
	return kafka.Message{
		Topic: topic,
		Key:   msg.Key,
		Value: msg.Body,
		Time:  now,
		Headers: lo.FilterMap(msg.Headers, func(h Header, _ int) (kafka.Header, bool) {
			return kafka.Header{Key: h.Key, Value: h.Value}, h.Key != ""
		}),
	}
}
