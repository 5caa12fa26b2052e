package testing

import (
	"context"
	"net"
	"os"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
)

// GetRedisClientAndCtx returns a client for a throwaway redis container.
// If REDIS_HOST is set, that instance is used instead. The test is skipped when
// neither is reachable.
func GetRedisClientAndCtx(t *testing.T) (context.Context, *redis.Client) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)

	if redisHost := os.Getenv("REDIS_HOST"); redisHost != "" {
		t.Logf("using redis host: [%s]", redisHost)
		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(redisHost, "6379"),
			Password: os.Getenv("REDIS_PASS"),
			DB:       0, // use default DB
		})
		t.Cleanup(func() { _ = rdb.Close() })

		pingRes, err := rdb.Ping(ctx).Result()
		require.NoError(t, err)
		t.Logf("redis ping res: %s", pingRes)
		return ctx, rdb
	}

	// uses a sensible default on windows (tcp/http) and linux/osx (socket)
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not create dockertest pool: %s", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not available: %s", err)
	}

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("redis teardown: %s", err)
		}
	})

	rdb := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", resource.GetPort("6379/tcp")),
		DB:   0,
	})
	t.Cleanup(func() { _ = rdb.Close() })

	require.NoError(t, pool.Retry(func() error {
		return rdb.Ping(ctx).Err()
	}))

	return ctx, rdb
}
