package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/archimedes-labs/archimedes-backend/internal/prices"
	"github.com/archimedes-labs/archimedes-backend/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// scriptedSource emits a fixed set of ticks and then blocks until
// canceled.
type scriptedSource struct {
	ticks []prices.Tick
}

func (s *scriptedSource) Name() string { return "scripted" }

func (s *scriptedSource) SubscribeLive(ctx context.Context, marketID string, out chan<- prices.Tick) error {
	for _, tick := range s.ticks {
		if tick.MarketID != marketID {
			continue
		}
		select {
		case out <- tick:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	<-ctx.Done()
	return ctx.Err()
}

func newFallbackCache(t *testing.T) *store.Cache {
	t.Helper()

	cache, err := store.NewCache("127.0.0.1:1", zap.NewNop().Sugar(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestPublisherCachesAndPublishesTicks(t *testing.T) {
	cache := newFallbackCache(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	channel := store.PriceChannel("btc-usdt")
	sub := cache.SubscribeInMemory(ctx, channel)
	require.NotNil(t, sub)
	defer sub.Close()

	source := &scriptedSource{
		ticks: []prices.Tick{
			{MarketID: "btc-usdt", Price: 43300.25, TsMs: 1700000000000},
		},
	}

	publisher := NewPricePublisher(source, []string{"btc-usdt"}, cache, zap.NewNop().Sugar(), DefaultPricePublisherConfig())
	go publisher.Start(ctx)
	defer publisher.Stop()

	select {
	case msg := <-sub.Channel():
		require.NotNil(t, msg)
		assert.Equal(t, channel, msg.Channel)
		assert.Contains(t, msg.Payload, "43300.25")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for published tick")
	}

	var cached prices.Tick
	require.NoError(t, cache.GetLatestPrice(context.Background(), "btc-usdt", &cached))
	assert.Equal(t, 43300.25, cached.Price)
	assert.Equal(t, int64(1700000000000), cached.TsMs)
}

func TestPublisherStopsOnCancel(t *testing.T) {
	cache := newFallbackCache(t)

	ctx, cancel := context.WithCancel(context.Background())

	publisher := NewPricePublisher(&scriptedSource{}, []string{"btc-usdt"}, cache, zap.NewNop().Sugar(), PricePublisherConfig{})
	done := make(chan error, 1)
	go func() {
		done <- publisher.Start(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("publisher did not stop on cancel")
	}
}
