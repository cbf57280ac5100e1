package translate

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/coocood/freecache"
	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/newsroom/internal/telemetry/metrics"
)

const (
	megabyte = 1024 * 1024

	DefaultCacheSizeMB = 32
	DefaultCacheTTL    = 24 * time.Hour

	redisKeyPrefix = "translate::"
)

// Cache keeps finished translations in a bounded in-process cache, optionally
// backed by redis so that all instances share the work.
type Cache struct {
	local          *freecache.Cache
	rdb            *redis.Client
	ttl            time.Duration
	metricsManager *metrics.Manager
}

// NewCache creates the cache. rdb may be nil. Once sizeMB is exhausted the
// least recently used entries are evicted.
func NewCache(sizeMB int, ttl time.Duration, rdb *redis.Client, metricsManager *metrics.Manager) *Cache {
	if sizeMB <= 0 {
		sizeMB = DefaultCacheSizeMB
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{
		local:          freecache.NewCache(sizeMB * megabyte),
		rdb:            rdb,
		ttl:            ttl,
		metricsManager: metricsManager,
	}
}

// cacheKey hashes source-target-text, texts can be whole articles.
func cacheKey(source, target Language, text string) string {
	sum := sha256.Sum256([]byte(string(source) + "-" + string(target) + "-" + text))
	return hex.EncodeToString(sum[:])
}

func (c *Cache) Get(ctx context.Context, key string) (string, bool) {
	if val, err := c.local.Get([]byte(key)); err == nil {
		c.count("local", "hit")
		return string(val), true
	}
	c.count("local", "miss")

	if c.rdb == nil {
		return "", false
	}

	val, err := c.rdb.Get(ctx, redisKeyPrefix+key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("translate cache: redis get: %s", err)
		}
		c.count("redis", "miss")
		return "", false
	}

	c.count("redis", "hit")
	c.setLocal(key, val)
	return val, true
}

func (c *Cache) Set(ctx context.Context, key, val string) {
	c.setLocal(key, val)
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Set(ctx, redisKeyPrefix+key, val, c.ttl).Err(); err != nil {
		log.Errorf("translate cache: redis set: %s", err)
	}
}

func (c *Cache) setLocal(key, val string) {
	if err := c.local.Set([]byte(key), []byte(val), int(c.ttl.Seconds())); err != nil {
		// entries larger than 1/1024 of the cache are rejected
		log.Debugf("translate cache: local set: %s", err)
	}
}

func (c *Cache) count(tier, result string) {
	if c.metricsManager == nil {
		return
	}
	c.metricsManager.CounterTranslateCache.With(prometheus.Labels{"tier": tier, "result": result}).Inc()
}
