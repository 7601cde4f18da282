package mock

import (
	"context"
	"testing"
	"time"

	"github.com/archimedes-labs/archimedes-backend/internal/prices"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSubscribeLiveProducesTicks(t *testing.T) {
	src := New(zap.NewNop().Sugar(), map[string]float64{"btc-usdt": 43250.50}, 5*time.Millisecond, 0.002)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan prices.Tick, 10)
	go src.SubscribeLive(ctx, "btc-usdt", out)

	var ticks []prices.Tick
	deadline := time.After(time.Second)
	for len(ticks) < 3 {
		select {
		case tick := <-out:
			ticks = append(ticks, tick)
		case <-deadline:
			t.Fatal("timed out waiting for ticks")
		}
	}

	for _, tick := range ticks {
		assert.Equal(t, "btc-usdt", tick.MarketID)
		// The walk stays within ±50% of base.
		assert.GreaterOrEqual(t, tick.Price, 43250.50*0.5)
		assert.LessOrEqual(t, tick.Price, 43250.50*1.5)
		assert.Greater(t, tick.TsMs, int64(0))
	}
}

func TestSubscribeLiveUnknownMarketAnchorsAtOne(t *testing.T) {
	src := New(zap.NewNop().Sugar(), nil, 5*time.Millisecond, 0.002)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan prices.Tick, 10)
	go src.SubscribeLive(ctx, "xyz-usdt", out)

	select {
	case tick := <-out:
		assert.GreaterOrEqual(t, tick.Price, 0.5)
		assert.LessOrEqual(t, tick.Price, 1.5)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for tick")
	}
}

func TestSubscribeLiveStopsOnCancel(t *testing.T) {
	src := New(zap.NewNop().Sugar(), nil, time.Millisecond, 0.002)

	ctx, cancel := context.WithCancel(context.Background())

	out := make(chan prices.Tick, 1)
	done := make(chan error, 1)
	go func() {
		done <- src.SubscribeLive(ctx, "btc-usdt", out)
	}()

	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("subscription did not stop on cancel")
	}
}
