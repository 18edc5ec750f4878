package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	inflightPrefix     = "inflight:"
	defaultInflightTTL = 30 * time.Second
)

// releaseScript deletes the lock only if it still holds our token, so a lock
// that expired and was taken by another call is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// InFlightGuard is a Redis lock that rejects a second mutating call for the
// same key while the first is still running.
type InFlightGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewInFlightGuard returns a guard whose locks expire after ttl even if never
// released.
func NewInFlightGuard(client *redis.Client, ttl time.Duration) *InFlightGuard {
	if ttl <= 0 {
		ttl = defaultInflightTTL
	}
	return &InFlightGuard{client: client, ttl: ttl}
}

// Acquire tries to take the lock for key. When acquired is false another call
// holds it. release must be called once the guarded work completes.
func (g *InFlightGuard) Acquire(ctx context.Context, key string) (release func(), acquired bool, err error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, inflightPrefix+key, token, g.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("inflight acquire: %w", err)
	}
	if !ok {
		return func() {}, false, nil
	}

	return func() {
		// The request context may already be done; use a short detached one.
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		_ = releaseScript.Run(ctx, g.client, []string{inflightPrefix + key}, token).Err()
	}, true, nil
}
