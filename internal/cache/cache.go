// Package cache provides a Redis-backed cache of search results, keyed by
// a normalized form of the query and result limit so that equivalent
// queries ("cat AND dog" / "dog and cat") share one cache entry.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/linguasearch/internal/search/engine"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/config"
	pkgredis "github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/linguasearch/pkg/resilience"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "search:"

const redisCallTimeout = 500 * time.Millisecond

// QueryCache wraps a Redis client with singleflight de-duplication so that
// concurrent identical queries only ever compute the search once. Every
// Redis round trip runs behind a circuit breaker and a hard timeout: a
// struggling cache degrades to cache misses, it never slows down a search.
type QueryCache struct {
	client *pkgredis.Client
	cfg    config.RedisConfig
	group  singleflight.Group
	logger *slog.Logger
	cb     *resilience.CircuitBreaker
	hits   atomic.Int64
	misses atomic.Int64
}

// New creates a QueryCache backed by client.
func New(client *pkgredis.Client, cfg config.RedisConfig) *QueryCache {
	return &QueryCache{
		client: client,
		cfg:    cfg,
		logger: slog.Default().With("component", "query-cache"),
		cb:     resilience.NewCircuitBreaker("redis-cache", resilience.CircuitBreakerConfig{}),
	}
}

// Get returns a cached SearchResult for query/limit, if present.
func (c *QueryCache) Get(ctx context.Context, query string, limit int) (*engine.SearchResult, bool) {
	key := c.buildKey(query, limit)
	var data string
	err := c.cb.Execute(func() error {
		return resilience.WithTimeout(ctx, redisCallTimeout, "redis-get", func(tctx context.Context) error {
			var innerErr error
			data, innerErr = c.client.Get(tctx, key)
			return innerErr
		})
	})
	if err != nil {
		if pkgredis.IsNilError(err) {
			c.misses.Add(1)
			return nil, false
		}
		c.logger.Warn("cache get failed, treating as miss", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	var result engine.SearchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.logger.Debug("cache hit", "query", query, "key", key)
	return &result, true
}

// Set stores a SearchResult for query/limit under the configured TTL.
func (c *QueryCache) Set(ctx context.Context, query string, limit int, result *engine.SearchResult) {
	key := c.buildKey(query, limit)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	err = c.cb.Execute(func() error {
		return resilience.WithTimeout(ctx, redisCallTimeout, "redis-set", func(tctx context.Context) error {
			return c.client.Set(tctx, key, data, c.cfg.CacheTTL)
		})
	})
	if err != nil {
		c.logger.Warn("cache set failed, result will be recomputed next time", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result for query/limit, computing and
// caching it via computeFn if absent. Concurrent callers for the same
// key share a single computeFn invocation.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	query string,
	limit int,
	computeFn func() (*engine.SearchResult, error),
) (*engine.SearchResult, bool, error) {
	if result, ok := c.Get(ctx, query, limit); ok {
		return result, true, nil
	}
	key := c.buildKey(query, limit)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		if result, ok := c.Get(ctx, query, limit); ok {
			return result, nil
		}
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, query, limit, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*engine.SearchResult), false, nil
}

// Invalidate flushes every cached search result. Called after a rebuild
// swaps in a fresh Engine, since prior results no longer reflect the
// current corpus.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	pattern := keyPrefix + "*"
	deleted, err := c.client.FlushByPattern(ctx, pattern)
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidated", "keys_deleted", deleted)
	return nil
}

// Stats reports cumulative hit/miss counters.
func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) buildKey(query string, limit int) string {
	normalized := normalizeQuery(query)
	raw := fmt.Sprintf("%s:limit=%d", normalized, limit)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:16])
}

// normalizeQuery reduces a boolean query to a canonical form so that
// term-order and operator-case variations collapse to the same cache key.
// It is a coarse approximation of the real parser: good enough for cache
// key stability, not a substitute for query.Parse.
func normalizeQuery(query string) string {
	words := strings.Fields(strings.ToLower(query))
	terms := make([]string, 0)
	excludes := make([]string, 0)
	queryType := "AND"
	excludeNext := false
	for _, w := range words {
		upper := strings.ToUpper(w)
		switch upper {
		case "AND":
			queryType = "AND"
		case "OR":
			queryType = "OR"
		case "NOT":
			excludeNext = true
		case "(", ")":
		default:
			w = strings.Trim(w, "()")
			if w == "" {
				continue
			}
			if excludeNext {
				excludes = append(excludes, w)
				excludeNext = false
			} else {
				terms = append(terms, w)
			}
		}
	}

	sort.Strings(terms)
	sort.Strings(excludes)
	parts := []string{queryType, strings.Join(terms, ",")}
	if len(excludes) > 0 {
		parts = append(parts, "NOT:"+strings.Join(excludes, ","))
	}
	return strings.Join(parts, "|")
}
