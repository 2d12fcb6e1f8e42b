// Package replay remembers which one-time tokens were already redeemed.
package replay

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrEmptyKey is returned when Claim receives an empty key.
var ErrEmptyKey = errors.New("replay: empty key")

// Guard records keys for a limited time.
type Guard interface {
	// Claim marks key as used for ttl. It reports true only for the first
	// caller; every later call within ttl gets false.
	Claim(ctx context.Context, key string, ttl time.Duration) (bool, error)
}

// RedisGuard stores claimed keys with SET NX and an expiry, so concurrent
// claims across instances resolve to exactly one winner.
type RedisGuard struct {
	client redis.UniversalClient
	prefix string
}

// NewRedis returns a guard storing keys under prefix.
func NewRedis(client redis.UniversalClient, prefix string) *RedisGuard {
	return &RedisGuard{client: client, prefix: prefix}
}

func (g *RedisGuard) Claim(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}

	return g.client.SetNX(ctx, g.prefix+key, time.Now().Unix(), ttl).Result()
}

// Noop claims every key. It backs the stateless mode where tokens may be
// redeemed repeatedly within their lifetime.
type Noop struct{}

func NewNoop() Noop {
	return Noop{}
}

func (Noop) Claim(context.Context, string, time.Duration) (bool, error) {
	return true, nil
}
