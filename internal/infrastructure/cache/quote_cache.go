package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/damon-houk/emission-decay/internal/domain/entity"
)

// DefaultExpiration is how long a cached quote stays valid
const DefaultExpiration = 24 * time.Hour

// CacheEntry represents a cached quote with its insertion time
type CacheEntry struct {
	Quote     *entity.Quote
	Timestamp time.Time
}

// MemoryQuoteCache provides a thread-safe in-memory cache for quotes
type MemoryQuoteCache struct {
	cache      map[string]CacheEntry
	expiration time.Duration
	mutex      sync.RWMutex
}

// NewMemoryQuoteCache creates a new quote cache
func NewMemoryQuoteCache(expiration time.Duration) *MemoryQuoteCache {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}

	return &MemoryQuoteCache{
		cache:      make(map[string]CacheEntry),
		expiration: expiration,
	}
}

// QuoteKey creates a cache key from the inputs of a quote
func QuoteKey(mode string, initialAmount, rate float64, target time.Time) string {
	return mode + ":" +
		strconv.FormatFloat(initialAmount, 'g', -1, 64) + ":" +
		strconv.FormatFloat(rate, 'g', -1, 64) + ":" +
		strconv.FormatInt(target.Unix(), 10)
}

// Get retrieves a quote from the cache if available and not expired
func (c *MemoryQuoteCache) Get(_ context.Context, key string) (*entity.Quote, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[key]
	if !exists || time.Since(entry.Timestamp) > c.expiration {
		return nil, false
	}

	return entry.Quote, true
}

// Put stores a quote in the cache
func (c *MemoryQuoteCache) Put(_ context.Context, key string, quote *entity.Quote) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[key] = CacheEntry{
		Quote:     quote,
		Timestamp: time.Now(),
	}
	return nil
}

// Clear clears all entries from the cache
func (c *MemoryQuoteCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache = make(map[string]CacheEntry)
}

// SetExpiration sets the cache expiration duration
func (c *MemoryQuoteCache) SetExpiration(duration time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.expiration = duration
}

// Size returns the number of items in the cache
func (c *MemoryQuoteCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return len(c.cache)
}

// CleanExpired removes expired entries from the cache
func (c *MemoryQuoteCache) CleanExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	count := 0
	now := time.Now()

	for key, entry := range c.cache {
		if now.Sub(entry.Timestamp) > c.expiration {
			delete(c.cache, key)
			count++
		}
	}

	return count
}
