package watchlists

import (
	"strings"

	"github.com/archimedes-labs/archimedes-backend/internal/markets"
	"go.uber.org/zap"
)

// Enricher resolves raw watchlist items against the market catalog and
// decorates them with prices and simulated 24h statistics. Prices are
// memoized through the owned PriceCache; the stat figures are pure
// functions of the market id so repeated reads stay stable.
type Enricher struct {
	markets *markets.Service
	cache   *PriceCache
	logger  *zap.SugaredLogger
}

func NewEnricher(marketSvc *markets.Service, cache *PriceCache, logger *zap.SugaredLogger) *Enricher {
	return &Enricher{
		markets: marketSvc,
		cache:   cache,
		logger:  logger,
	}
}

// Cache exposes the owned price cache, mainly so the demo reset endpoint
// can clear it along with the store.
func (e *Enricher) Cache() *PriceCache {
	return e.cache
}

func (e *Enricher) EnrichWatchlist(wl Watchlist) EnrichedWatchlist {
	items := make([]EnrichedItem, 0, len(wl.Items))
	for _, item := range wl.Items {
		items = append(items, e.enrichItem(item))
	}
	return EnrichedWatchlist{
		ID:          wl.ID,
		Name:        wl.Name,
		Description: wl.Description,
		Items:       items,
		CreatedAt:   wl.CreatedAt,
		UpdatedAt:   wl.UpdatedAt,
	}
}

func (e *Enricher) EnrichWatchlists(watchlists []Watchlist) []EnrichedWatchlist {
	out := make([]EnrichedWatchlist, 0, len(watchlists))
	for _, wl := range watchlists {
		out = append(out, e.EnrichWatchlist(wl))
	}
	return out
}

func (e *Enricher) enrichItem(item WatchlistItem) EnrichedItem {
	out := EnrichedItem{
		ID:        item.ID,
		Kind:      item.Kind,
		TokenID:   item.TokenID,
		MarketID:  item.MarketID,
		CreatedAt: item.CreatedAt,
	}

	switch item.Kind {
	case ItemKindToken:
		token, ok := e.markets.GetTokenByID(item.TokenID)
		if !ok {
			// Dangling reference; degrade instead of failing the request.
			e.logger.Warnw("Watchlist item references unknown token", "tokenId", item.TokenID)
			out.Symbol = strings.ToUpper(item.TokenID)
			out.Name = "Unknown Token"
			return out
		}
		out.Symbol = token.Symbol
		out.Name = token.Name

		// Quote the token through its usdt market when one exists.
		if market, ok := e.markets.GetMarketByID(item.TokenID + "-usdt"); ok {
			e.applyMarketStats(&out, market.ID)
		}

	case ItemKindMarket:
		market, ok := e.markets.GetMarketByID(item.MarketID)
		if !ok {
			e.logger.Warnw("Watchlist item references unknown market", "marketId", item.MarketID)
			out.Symbol = strings.ToUpper(item.MarketID)
			out.Name = "Unknown Market"
			return out
		}
		out.Symbol = market.BaseToken.Symbol + "/" + market.QuoteToken.Symbol
		out.Name = market.BaseToken.Name + " / " + market.QuoteToken.Name
		out.BaseSymbol = market.BaseToken.Symbol
		out.QuoteSymbol = market.QuoteToken.Symbol
		e.applyMarketStats(&out, market.ID)
	}

	return out
}

func (e *Enricher) applyMarketStats(out *EnrichedItem, marketID string) {
	if price, ok := e.marketPrice(marketID); ok {
		out.Price = &price
	}
	change := mockPriceChange24h(marketID)
	volume := mockVolume24h(marketID)
	out.PriceChange24h = &change
	out.Volume24h = &volume
}

// marketPrice returns the cached quote, falling back to a fresh feed and
// caching the result.
func (e *Enricher) marketPrice(marketID string) (float64, bool) {
	if price, ok := e.cache.Get(marketID); ok {
		return price, true
	}
	feed, ok := e.markets.LatestPriceFeed(marketID)
	if !ok {
		return 0, false
	}
	e.cache.Set(marketID, feed.Price)
	return feed.Price, true
}

// marketIDHash sums the byte values of the id. The mock stat figures
// below are deterministic functions of it so repeated enrichments of the
// same item always agree.
func marketIDHash(marketID string) int {
	hash := 0
	for _, b := range []byte(marketID) {
		hash += int(b)
	}
	return hash
}

// mockPriceChange24h maps the id hash to a percentage in [-10.00, +10.00).
func mockPriceChange24h(marketID string) float64 {
	return float64(marketIDHash(marketID)%2000-1000) / 100
}

// mockVolume24h maps the id hash to a volume in [1M, 11M).
func mockVolume24h(marketID string) float64 {
	return float64(marketIDHash(marketID)%10000000 + 1000000)
}
