package jobs

import (
	"context"
	"time"

	"github.com/archimedes-labs/archimedes-backend/internal/prices"
	"github.com/archimedes-labs/archimedes-backend/internal/store"
	"go.uber.org/zap"
)

type PricePublisherConfig struct {
	TTL time.Duration // cache TTL for latest prices
}

func DefaultPricePublisherConfig() PricePublisherConfig {
	return PricePublisherConfig{
		TTL: 30 * time.Second,
	}
}

// PricePublisher drives a price source for a set of markets, caching the
// latest tick per market and fanning ticks out over pubsub for websocket
// consumers.
type PricePublisher struct {
	source    prices.Source
	marketIDs []string
	cache     *store.Cache
	logger    *zap.SugaredLogger
	config    PricePublisherConfig

	cancelCtx context.CancelFunc
}

func NewPricePublisher(source prices.Source, marketIDs []string, cache *store.Cache, logger *zap.SugaredLogger, config PricePublisherConfig) *PricePublisher {
	if config.TTL <= 0 {
		config.TTL = DefaultPricePublisherConfig().TTL
	}
	return &PricePublisher{
		source:    source,
		marketIDs: marketIDs,
		cache:     cache,
		logger:    logger,
		config:    config,
	}
}

// Start blocks until ctx is canceled, running one subscription per
// market.
func (p *PricePublisher) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancelCtx = cancel

	p.logger.Infow("Starting price publisher",
		"source", p.source.Name(),
		"markets", p.marketIDs,
	)

	for _, marketID := range p.marketIDs {
		go p.subscribeLiveData(ctx, marketID)
	}

	<-ctx.Done()
	p.logger.Infow("Price publisher stopping due to context cancellation")
	return ctx.Err()
}

func (p *PricePublisher) Stop() {
	if p.cancelCtx != nil {
		p.cancelCtx()
	}
}

func (p *PricePublisher) subscribeLiveData(ctx context.Context, marketID string) {
	tickChan := make(chan prices.Tick, 100)

	go func() {
		if err := p.source.SubscribeLive(ctx, marketID, tickChan); err != nil && ctx.Err() == nil {
			p.logger.Warnw("Live subscription failed", "marketId", marketID, "source", p.source.Name(), "error", err)
		}
		close(tickChan)
	}()

	for tick := range tickChan {
		p.processTick(ctx, tick)
	}
}

func (p *PricePublisher) processTick(ctx context.Context, tick prices.Tick) {
	if err := p.cache.Set(ctx, store.LatestPriceKey(tick.MarketID), tick, p.config.TTL); err != nil {
		p.logger.Warnw("Failed to cache tick", "marketId", tick.MarketID, "error", err)
	}

	channel := store.PriceChannel(tick.MarketID)
	if err := p.cache.Publish(ctx, channel, tick); err != nil {
		p.logger.Warnw("Failed to publish tick", "marketId", tick.MarketID, "channel", channel, "error", err)
	} else {
		p.logger.Debugw("Published tick", "marketId", tick.MarketID, "price", tick.Price)
	}
}
