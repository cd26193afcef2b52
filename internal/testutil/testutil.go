package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	redismodule "github.com/testcontainers/testcontainers-go/modules/redis"
)

const defaultRedisImage = "redis:8-alpine"

// RequireIntegration skips t under -short.
func RequireIntegration(t *testing.T) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
}

// StartRedisCache starts a throwaway Redis container for the analysis cache and
// returns a client to it. The test is skipped when no container runtime is
// available. REDIS_TEST_IMAGE overrides the image.
func StartRedisCache(ctx context.Context, t *testing.T) *redis.Client {
	t.Helper()
	RequireIntegration(t)

	image := os.Getenv("REDIS_TEST_IMAGE")
	if image == "" {
		image = defaultRedisImage
	}

	defer func() {
		if r := recover(); r != nil {
			t.Skipf("container runtime unavailable: %v", r)
		}
	}()

	container, err := redismodule.Run(ctx, image)
	if err != nil {
		t.Skipf("failed to start %s: %v", image, err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		t.Skipf("failed to get redis endpoint: %v", err)
	}

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("failed to close redis client: %v", err)
		}
	})

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis container not reachable: %v", err)
	}

	return client
}
