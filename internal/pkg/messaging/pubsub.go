package messaging

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub/v2"
	"github.com/samber/lo"
	"google.golang.org/api/option"
)

var (
	ErrPubSubProjectIDRequired = errors.New("messaging: pubsub project id is required")
	ErrPubSubTopicRequired     = errors.New("messaging: pubsub topic is required")
)

type PubSubConfig struct {
	ProjectID string
	// Endpoint overrides the API endpoint, e.g. a regional one. The emulator
	// is picked up from PUBSUB_EMULATOR_HOST by the client itself.
	Endpoint      string
	ClientOptions []option.ClientOption
}

// PubSub publishes to Google Pub/Sub topics. Headers become attributes.
type PubSub struct {
	client *pubsub.Client

	mu         sync.Mutex
	closed     bool
	publishers map[string]*pubsub.Publisher
}

func NewPubSub(ctx context.Context, cfg PubSubConfig) (*PubSub, error) {
	if cfg.ProjectID == "" {
		return nil, ErrPubSubProjectIDRequired
	}

	opts := cfg.ClientOptions
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}

	c, err := pubsub.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("messaging: pubsub new client: %w", err)
	}

	return &PubSub{client: c, publishers: map[string]*pubsub.Publisher{}}, nil
}

func (p *PubSub) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	pubs := lo.Values(p.publishers)
	p.publishers = nil
	p.mu.Unlock()

	for _, pub := range pubs {
		pub.Stop()
	}
	return p.client.Close()
}

func (p *PubSub) Publish(ctx context.Context, destination string, msg OutgoingMessage) (PublishResult, error) {
	if destination == "" {
		return PublishResult{}, ErrPubSubTopicRequired
	}

	pub, err := p.publisher(destination)
	if err != nil {
		return PublishResult{}, err
	}

	id, err := pub.Publish(ctx, &pubsub.Message{
		Data:        msg.Body,
		Attributes:  headerAttributes(msg.Headers),
		OrderingKey: msg.OrderingKey,
	}).Get(ctx)
	if err != nil {
		return PublishResult{}, fmt.Errorf("messaging: pubsub publish: %w", err)
	}

	return PublishResult{MessageID: id, Topic: destination, Timestamp: time.Now()}, nil
}

func (p *PubSub) publisher(topic string) (*pubsub.Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}
	if pub, ok := p.publishers[topic]; ok {
		return pub, nil
	}

	pub := p.client.Publisher(topic)
	p.publishers[topic] = pub
	return pub, nil
}

// headerAttributes keeps the last value of duplicate keys.
func headerAttributes(headers []Header) map[string]string {
	if len(headers) == 0 {
		return nil
	}

	return lo.SliceToMap(lo.Filter(headers, func(h Header, _ int) bool { return h.Key != "" }),
		func(h Header) (string, string) { return h.Key, string(h.Value) })
}
