package router

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fonlabs/fonrouter/pkg/route"
)

// DefaultCacheCapacity bounds the route cache when no capacity is
// configured.
const DefaultCacheCapacity = 1024

// routeCache memoizes classification results per folded question.
// Identical questions always yield identical routes, so entries never
// need invalidation until the registry changes.
type routeCache struct {
	lru *lru.Cache[string, []route.Match]
}

func newRouteCache(capacity int) (*routeCache, error) {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	c, err := lru.New[string, []route.Match](capacity)
	if err != nil {
		return nil, err
	}
	return &routeCache{lru: c}, nil
}

func cacheKey(folded string) string {
	sum := sha256.Sum256([]byte(folded))
	return hex.EncodeToString(sum[:])
}

func (c *routeCache) get(folded string) ([]route.Match, bool) {
	return c.lru.Get(cacheKey(folded))
}

func (c *routeCache) put(folded string, matches []route.Match) {
	c.lru.Add(cacheKey(folded), matches)
}

func (c *routeCache) purge() {
	c.lru.Purge()
}

func (c *routeCache) len() int {
	return c.lru.Len()
}
