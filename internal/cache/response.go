// response.go provides a Valkey-backed cache for public API responses.
// The public endpoints serve content that only changes when the operator
// saves something, so admin mutations purge the affected keys and every
// read in between skips the database.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// responseKeyPrefix namespaces cached responses in Valkey.
	responseKeyPrefix = "resp:"

	// DefaultResponseTTL bounds staleness even if a purge is missed.
	DefaultResponseTTL = 5 * time.Minute
)

// Well-known cache keys, one per cached public endpoint.
const (
	KeyProfile  = "profile"
	KeyProjects = "projects"
	KeyPosts    = "posts"
	KeyServices = "services"
)

// ResponseCache stores rendered JSON payloads for public endpoints.
type ResponseCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResponseCache creates a response cache backed by the given Valkey client.
func NewResponseCache(client *redis.Client, ttl time.Duration) *ResponseCache {
	if ttl == 0 {
		ttl = DefaultResponseTTL
	}
	return &ResponseCache{client: client, ttl: ttl}
}

// Get retrieves a cached payload. Returns (nil, false) on miss; cache
// errors degrade to a miss.
func (rc *ResponseCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := rc.client.Get(ctx, responseKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("response cache get error", "key", key, "error", err)
		return nil, false
	}
	return val, true
}

// Set stores a payload with the configured TTL. Failures are logged,
// never surfaced: the caller already has the payload to serve.
func (rc *ResponseCache) Set(ctx context.Context, key string, payload []byte) {
	if err := rc.client.Set(ctx, responseKeyPrefix+key, payload, rc.ttl).Err(); err != nil {
		slog.Warn("response cache set error", "key", key, "error", err)
	}
}

// Purge drops the given keys after an admin write.
func (rc *ResponseCache) Purge(ctx context.Context, keys ...string) {
	for _, key := range keys {
		if err := rc.client.Del(ctx, responseKeyPrefix+key).Err(); err != nil {
			slog.Warn("response cache purge error", "key", key, "error", err)
		}
	}
}
