package store

import (
	"context"
	"testing"
	"time"

	"github.com/archimedes-labs/archimedes-backend/internal/prices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestCache dials a port nothing listens on, forcing the in-memory
// fallback.
func newTestCache(t *testing.T) *Cache {
	t.Helper()

	cache, err := NewCache("127.0.0.1:1", zap.NewNop().Sugar(), nil)
	require.NoError(t, err)
	require.True(t, cache.IsInMemoryMode())
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCacheSetGet(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	tick := prices.Tick{MarketID: "btc-usdt", Price: 43250.50, TsMs: 1700000000000}
	require.NoError(t, cache.Set(ctx, LatestPriceKey("btc-usdt"), tick, time.Minute))

	var got prices.Tick
	require.NoError(t, cache.Get(ctx, LatestPriceKey("btc-usdt"), &got))
	assert.Equal(t, tick, got)
}

func TestCacheMiss(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	var got prices.Tick
	err := cache.Get(ctx, LatestPriceKey("missing"), &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheDelete(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "arc:test:k", "v", time.Minute))

	exists, err := cache.Exists(ctx, "arc:test:k")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, cache.Delete(ctx, "arc:test:k"))

	exists, err = cache.Exists(ctx, "arc:test:k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLatestPriceHelpers(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	tick := prices.Tick{MarketID: "eth-usdt", Price: 2285.75, TsMs: 1700000000000}
	require.NoError(t, cache.SetLatestPrice(ctx, "eth-usdt", tick))

	var got prices.Tick
	require.NoError(t, cache.GetLatestPrice(ctx, "eth-usdt", &got))
	assert.Equal(t, 2285.75, got.Price)
}

func TestInMemoryPubSub(t *testing.T) {
	cache := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := PriceChannel("btc-usdt")
	sub := cache.SubscribeInMemory(ctx, channel)
	require.NotNil(t, sub)
	defer sub.Close()

	tick := prices.Tick{MarketID: "btc-usdt", Price: 43251.0, TsMs: 1700000000000}
	require.NoError(t, cache.Publish(ctx, channel, tick))

	select {
	case msg := <-sub.Channel():
		require.NotNil(t, msg)
		assert.Equal(t, channel, msg.Channel)
		assert.Contains(t, msg.Payload, "43251")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for pubsub message")
	}
}

func TestPubSubIgnoresOtherChannels(t *testing.T) {
	cache := newTestCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := cache.SubscribeInMemory(ctx, PriceChannel("btc-usdt"))
	require.NotNil(t, sub)
	defer sub.Close()

	require.NoError(t, cache.Publish(ctx, PriceChannel("eth-usdt"), "nope"))

	select {
	case msg := <-sub.Channel():
		t.Fatalf("unexpected message: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestKeyHelpers(t *testing.T) {
	assert.Equal(t, "arc:prices:latest:btc-usdt", LatestPriceKey("btc-usdt"))
	assert.Equal(t, "arc:prices:btc-usdt", PriceChannel("btc-usdt"))
}
