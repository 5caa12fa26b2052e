package queries

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/2beens/liftlog/internal/api"
	"github.com/2beens/liftlog/internal/telemetry/metrics"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

const megabyte = 1024 * 1024

// Key identifies a cached read, e.g. Key{"sets", "workout", 3}.
type Key []any

func (k Key) String() string {
	parts := make([]string, len(k))
	for i, seg := range k {
		switch v := seg.(type) {
		case []int:
			ids := make([]string, len(v))
			for j, id := range v {
				ids[j] = fmt.Sprint(id)
			}
			parts[i] = strings.Join(ids, ",")
		default:
			parts[i] = fmt.Sprint(v)
		}
	}
	return strings.Join(parts, "/")
}

// covers reports whether invalidating k must drop the entry stored under key.
func (k Key) covers(key string) bool {
	prefix := k.String()
	return key == prefix || strings.HasPrefix(key, prefix+"/")
}

// Client pairs every api read with a TTL cache and request de-duplication,
// and every mutation with invalidation of the affected reads.
type Client struct {
	api   *api.Client
	cache *freecache.Cache
	// freecache counts in whole seconds and treats 0 as no expiry
	expireSeconds  int
	group          singleflight.Group
	generation     atomic.Uint64
	metricsManager *metrics.Manager
}

func New(apiClient *api.Client, cacheSizeMB int, ttl time.Duration, metricsManager *metrics.Manager) *Client {
	if cacheSizeMB <= 0 {
		cacheSizeMB = 16
	}
	return &Client{
		api:            apiClient,
		cache:          freecache.NewCache(cacheSizeMB * megabyte),
		expireSeconds:  expireSeconds(ttl),
		metricsManager: metricsManager,
	}
}

func expireSeconds(ttl time.Duration) int {
	return max(1, int(math.Ceil(ttl.Seconds())))
}

func (c *Client) API() *api.Client {
	return c.api
}

// Invalidate drops every cached read under the given keys (prefix match on segments).
func (c *Client) Invalidate(keys ...Key) {
	if len(keys) == 0 {
		return
	}
	c.generation.Add(1)

	var toDelete [][]byte
	it := c.cache.NewIterator()
	for entry := it.Next(); entry != nil; entry = it.Next() {
		for _, k := range keys {
			if k.covers(string(entry.Key)) {
				toDelete = append(toDelete, entry.Key)
				break
			}
		}
	}

	for _, key := range toDelete {
		c.cache.Del(key)
	}

	c.count("invalidated", len(toDelete))
	log.Tracef("query cache: invalidated %d entries", len(toDelete))
}

// Clear drops the whole cache, e.g. on logout.
func (c *Client) Clear() {
	c.generation.Add(1)
	c.cache.Clear()
}

func (c *Client) count(result string, n int) {
	if c.metricsManager == nil || n == 0 {
		return
	}
	c.metricsManager.CounterQueryCache.WithLabelValues(result).Add(float64(n))
}

func query[T any](ctx context.Context, c *Client, key Key, fetch func(ctx context.Context) (T, error)) (T, error) {
	cacheKey := key.String()

	if cached, err := c.cache.Get([]byte(cacheKey)); err == nil {
		var val T
		err := json.Unmarshal(cached, &val)
		if err == nil {
			c.count("hit", 1)
			return val, nil
		}
		log.Errorf("query cache: unmarshal %s: %s", cacheKey, err)
	}
	c.count("miss", 1)

	res, err, _ := c.group.Do(cacheKey, func() (any, error) {
		gen := c.generation.Load()
		val, err := fetch(ctx)
		if err != nil {
			return val, err
		}

		// a mutation landed while fetching, the result may already be stale
		if gen != c.generation.Load() {
			return val, nil
		}
		if valBytes, err := json.Marshal(val); err != nil {
			log.Errorf("query cache: marshal %s: %s", cacheKey, err)
		} else if err := c.cache.Set([]byte(cacheKey), valBytes, c.expireSeconds); err != nil {
			log.Errorf("query cache: set %s: %s", cacheKey, err)
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return res.(T), nil
}

func mutate[T any](ctx context.Context, c *Client, invalidate []Key, fn func(ctx context.Context) (T, error)) (T, error) {
	val, err := fn(ctx)
	if err != nil {
		return val, err
	}
	c.Invalidate(invalidate...)
	return val, nil
}

func mutateNoResult(ctx context.Context, c *Client, invalidate []Key, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	c.Invalidate(invalidate...)
	return nil
}
