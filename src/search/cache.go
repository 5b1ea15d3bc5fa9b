package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "search:"

// Cache wraps a Provider with a redis-backed result cache. Cache problems
// fall through to the underlying provider; unavailability is never cached.
type Cache struct {
	next Provider
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCache(next Provider, rdb *redis.Client, ttl time.Duration) *Cache {
	return &Cache{next: next, rdb: rdb, ttl: ttl}
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(query))
	return cachePrefix + hex.EncodeToString(sum[:16])
}

func (c *Cache) Fetch(ctx context.Context, query, apiKey string) ([]Snippet, error) {
	// No key means search is off for this user; don't serve cached results
	// either.
	if apiKey == "" {
		return c.next.Fetch(ctx, query, apiKey)
	}

	key := cacheKey(query)

	if raw, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var snippets []Snippet
		if err := json.Unmarshal(raw, &snippets); err == nil {
			return snippets, nil
		}
		// Corrupt entry; drop it and refetch.
		c.rdb.Del(ctx, key)
	} else if err != redis.Nil {
		log.Printf("search cache: get failed: %v", err)
	}

	snippets, err := c.next.Fetch(ctx, query, apiKey)
	if err != nil {
		return nil, err
	}

	if len(snippets) > 0 {
		if raw, err := json.Marshal(snippets); err == nil {
			if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
				log.Printf("search cache: set failed: %v", err)
			}
		}
	}
	return snippets, nil
}
