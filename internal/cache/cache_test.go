// Cache tests need a reachable Valkey; they are skipped otherwise.
package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func testClient(t *testing.T) *redis.Client {
	t.Helper()

	host := os.Getenv("VALKEY_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("VALKEY_PORT")
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, responseKeyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func TestResponseCacheRoundTrip(t *testing.T) {
	rc := NewResponseCache(testClient(t), time.Minute)
	ctx := context.Background()

	if _, ok := rc.Get(ctx, KeyProjects); ok {
		t.Fatal("expected miss on empty cache")
	}

	payload := []byte(`[{"title":"X"}]`)
	rc.Set(ctx, KeyProjects, payload)

	got, ok := rc.Get(ctx, KeyProjects)
	if !ok {
		t.Fatal("expected hit after set")
	}
	if string(got) != string(payload) {
		t.Errorf("payload: got %s", got)
	}
}

func TestResponseCachePurge(t *testing.T) {
	rc := NewResponseCache(testClient(t), time.Minute)
	ctx := context.Background()

	rc.Set(ctx, KeyServices, []byte(`[]`))
	rc.Set(ctx, KeyProfile, []byte(`{}`))
	rc.Purge(ctx, KeyServices, KeyProfile)

	if _, ok := rc.Get(ctx, KeyServices); ok {
		t.Error("expected services purged")
	}
	if _, ok := rc.Get(ctx, KeyProfile); ok {
		t.Error("expected profile purged")
	}
}
