package mock

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/archimedes-labs/archimedes-backend/internal/prices"
	"go.uber.org/zap"
)

// Source generates simulated ticks as a random walk around each
// market's base price. Prices are clamped to ±50% of base so a long run
// cannot drift into nonsense.
type Source struct {
	logger     *zap.SugaredLogger
	interval   time.Duration
	volatility float64
	basePrices map[string]float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a mock source. basePrices maps market id to the anchor
// price for its walk; markets missing from it anchor at 1.00.
func New(logger *zap.SugaredLogger, basePrices map[string]float64, interval time.Duration, volatility float64) *Source {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if volatility <= 0 {
		volatility = 0.002
	}

	return &Source{
		logger:     logger,
		interval:   interval,
		volatility: volatility,
		basePrices: basePrices,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (s *Source) Name() string {
	return "mock"
}

func (s *Source) SubscribeLive(ctx context.Context, marketID string, out chan<- prices.Tick) error {
	base := s.basePrices[marketID]
	if base <= 0 {
		base = 1.00
	}
	current := base

	s.logger.Infow("Starting mock live price feed", "marketId", marketID, "basePrice", base)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			current *= 1 + s.priceChange()

			// Clamp to ±50% of base.
			if min := base * 0.5; current < min {
				current = min
			} else if max := base * 1.5; current > max {
				current = max
			}

			tick := prices.Tick{
				MarketID: marketID,
				Price:    current,
				TsMs:     time.Now().UnixMilli(),
			}

			select {
			case out <- tick:
			case <-ctx.Done():
				return ctx.Err()
			default:
				// Channel full; skip this tick.
			}
		}
	}
}

func (s *Source) priceChange() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	change := s.rng.NormFloat64() * s.volatility

	// Occasional trend so the walk is not pure noise.
	if s.rng.Float64() < 0.1 {
		change += (s.rng.Float64() - 0.5) * s.volatility * 2
	}

	// Clamp extreme single-tick movements.
	if max := s.volatility * 5; change > max {
		change = max
	} else if change < -max {
		change = -max
	}

	return change
}
