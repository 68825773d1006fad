package embedder

import (
	"crypto/sha256"
	"encoding/hex"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is an in-memory LRU cache of embeddings keyed by content hash.
type Cache struct {
	cache *lru.Cache[string, []float32]
}

// NewCache creates a Cache holding at most maxLen entries. maxLen <= 0
// falls back to DefaultCacheSize.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = DefaultCacheSize
	}
	c, err := lru.New[string, []float32](maxLen)
	if err != nil {
		c, _ = lru.New[string, []float32](DefaultCacheSize)
	}
	return &Cache{cache: c}
}

// Get returns a defensive copy of the cached vector for hash, if present.
func (c *Cache) Get(hash string) ([]float32, bool) {
	v, ok := c.cache.Get(hash)
	if !ok {
		return nil, false
	}
	cp := make([]float32, len(v))
	copy(cp, v)
	return cp, true
}

// Set stores vector under hash, evicting the least-recently-used entry if
// the cache is at capacity.
func (c *Cache) Set(hash string, vector []float32) {
	c.cache.Add(hash, vector)
}

// Size returns the number of entries currently cached.
func (c *Cache) Size() int {
	return c.cache.Len()
}

// ComputeHash returns the hex-encoded SHA-256 digest of text, used as the
// cache key.
func ComputeHash(text string) string {
	h := sha256.Sum256([]byte(text))
	return hex.EncodeToString(h[:])
}
