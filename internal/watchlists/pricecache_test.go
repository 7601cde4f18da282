package watchlists

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriceCacheSetGet(t *testing.T) {
	c := NewPriceCache(time.Minute)

	_, ok := c.Get("btc-usdt")
	assert.False(t, ok)

	c.Set("btc-usdt", 43250.50)

	price, ok := c.Get("btc-usdt")
	assert.True(t, ok)
	assert.Equal(t, 43250.50, price)
}

func TestPriceCacheExpiry(t *testing.T) {
	c := NewPriceCache(time.Minute)

	now := time.Unix(1700000000, 0)
	c.now = func() time.Time { return now }

	c.Set("btc-usdt", 43250.50)

	now = now.Add(59 * time.Second)
	_, ok := c.Get("btc-usdt")
	assert.True(t, ok, "entry within TTL stays fresh")

	now = now.Add(2 * time.Second)
	_, ok = c.Get("btc-usdt")
	assert.False(t, ok, "entry past TTL expires")
}

func TestPriceCacheClear(t *testing.T) {
	c := NewPriceCache(time.Minute)
	c.Set("btc-usdt", 1)
	c.Set("eth-usdt", 2)

	c.Clear()

	_, ok := c.Get("btc-usdt")
	assert.False(t, ok)
	_, ok = c.Get("eth-usdt")
	assert.False(t, ok)
}

func TestPriceCacheDefaultTTL(t *testing.T) {
	c := NewPriceCache(0)
	assert.Equal(t, DefaultPriceTTL, c.ttl)
}
