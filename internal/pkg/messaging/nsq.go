package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	nsq "github.com/nsqio/go-nsq"
)

var (
	ErrNSQTopicRequired        = errors.New("messaging: nsq topic is required")
	ErrNSQProducerAddrRequired = errors.New("messaging: nsq producer address is required")
)

type NSQConfig struct {
	ProducerAddr string
	// Config overrides the default producer config.
	Config *nsq.Config
}

// NSQ publishes to an nsqd instance. NSQ messages have no headers, so
// OutgoingMessage.Headers are dropped.
type NSQ struct {
	producer *nsq.Producer
}

func NewNSQ(cfg NSQConfig) (*NSQ, error) {
	if cfg.ProducerAddr == "" {
		return nil, ErrNSQProducerAddrRequired
	}

	pcfg := cfg.Config
	if pcfg == nil {
		pcfg = nsq.NewConfig()
	}

	p, err := nsq.NewProducer(cfg.ProducerAddr, pcfg)
	if err != nil {
		return nil, fmt.Errorf("messaging: nsq new producer: %w", err)
	}
	p.SetLoggerLevel(nsq.LogLevelError)

	return &NSQ{producer: p}, nil
}

func (n *NSQ) Close() error {
	n.producer.Stop()
	return nil
}

// Publish sends msg asynchronously and waits for the nsqd response or ctx.
func (n *NSQ) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if destination == "" {
		return PublishResult{}, ErrNSQTopicRequired
	}

	done := make(chan *nsq.ProducerTransaction, 1)
	if err := n.producer.PublishAsync(destination, msg.Body, done); err != nil {
		return PublishResult{}, fmt.Errorf("messaging: nsq publish: %w", err)
	}

	select {
	case tx := <-done:
		if tx.Error != nil {
			return PublishResult{}, fmt.Errorf("messaging: nsq publish: %w", tx.Error)
		}
	case <-ctx.Done():
		return PublishResult{}, ctx.Err()
	}

	return PublishResult{Topic: destination, Timestamp: time.Now()}, nil
}
