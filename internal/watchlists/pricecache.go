package watchlists

import (
	"sync"
	"time"
)

const DefaultPriceTTL = 60 * time.Second

type cachedPrice struct {
	price     float64
	fetchedAt time.Time
}

// PriceCache memoizes market quotes for a fixed TTL so a watchlist full
// of items referencing the same market only pays for one price fetch.
// Expired entries are dropped lazily on the next read.
type PriceCache struct {
	mu      sync.Mutex
	entries map[string]cachedPrice
	ttl     time.Duration
	now     func() time.Time
}

func NewPriceCache(ttl time.Duration) *PriceCache {
	if ttl <= 0 {
		ttl = DefaultPriceTTL
	}
	return &PriceCache{
		entries: make(map[string]cachedPrice),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cached price for a market id if a fresh entry exists.
func (c *PriceCache) Get(marketID string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[marketID]
	if !ok {
		return 0, false
	}
	if c.now().Sub(entry.fetchedAt) > c.ttl {
		delete(c.entries, marketID)
		return 0, false
	}
	return entry.price, true
}

func (c *PriceCache) Set(marketID string, price float64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[marketID] = cachedPrice{price: price, fetchedAt: c.now()}
}

// Clear drops every entry. Used by tests and the demo reset endpoint.
func (c *PriceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]cachedPrice)
}
