package watchlists

import "time"

// ItemKind discriminates what a watchlist item references. An item is
// always exactly one of the two; there is no untagged case.
type ItemKind string

const (
	ItemKindToken  ItemKind = "token"
	ItemKindMarket ItemKind = "market"
)

// WatchlistItem is a weak reference to a token or market. The referenced
// id lives in the field matching Kind; the other field is empty.
type WatchlistItem struct {
	ID        string    `json:"id"`
	Kind      ItemKind  `json:"kind"`
	TokenID   string    `json:"tokenId,omitempty"`
	MarketID  string    `json:"marketId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Watchlist is a named, user-owned collection of token/market references.
// It exclusively owns its items: deleting the watchlist deletes them.
type Watchlist struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Items       []WatchlistItem `json:"items"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// EnrichedItem is the display-ready view of an item: the bare reference
// resolved to human-readable fields plus simulated market statistics.
// Pointer stat fields distinguish "no market data" from a zero value.
type EnrichedItem struct {
	ID        string    `json:"id"`
	Kind      ItemKind  `json:"kind"`
	TokenID   string    `json:"tokenId,omitempty"`
	MarketID  string    `json:"marketId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`

	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	BaseSymbol  string `json:"baseSymbol,omitempty"`
	QuoteSymbol string `json:"quoteSymbol,omitempty"`

	Price          *float64 `json:"price,omitempty"`
	PriceChange24h *float64 `json:"priceChange24h,omitempty"`
	Volume24h      *float64 `json:"volume24h,omitempty"`
}

type EnrichedWatchlist struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Items       []EnrichedItem `json:"items"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}
