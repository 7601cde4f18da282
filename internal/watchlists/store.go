package watchlists

import (
	"context"
	"time"
)

// Store is the persistence boundary for watchlists. The memory and
// postgres implementations are behaviorally interchangeable: same
// success results, same sentinel errors, same field shapes.
type Store interface {
	// List returns all watchlists with their items, newest first.
	List(ctx context.Context) ([]Watchlist, error)
	// Get returns a watchlist by id or ErrWatchlistNotFound.
	Get(ctx context.Context, id string) (*Watchlist, error)
	// Create inserts a new watchlist with no items and server-assigned
	// id and timestamps.
	Create(ctx context.Context, in CreateWatchlistInput) (*Watchlist, error)
	// UpdateMetadata applies a partial name/description update and
	// refreshes updatedAt.
	UpdateMetadata(ctx context.Context, id string, in UpdateWatchlistInput) (*Watchlist, error)
	// AddToken appends a token item; ErrDuplicateToken if the token is
	// already in the watchlist.
	AddToken(ctx context.Context, id, tokenID string) (*Watchlist, error)
	// AddMarket appends a market item; ErrDuplicateMarket on duplicates.
	AddMarket(ctx context.Context, id, marketID string) (*Watchlist, error)
	// RemoveItem deletes one item; ErrItemNotFound if the item does not
	// belong to the watchlist.
	RemoveItem(ctx context.Context, id, itemID string) (*Watchlist, error)
	// Delete removes the watchlist and, transitively, its items.
	Delete(ctx context.Context, id string) error
	// Reset restores the seed data. Only meaningful for the memory
	// backend; the postgres backend logs and does nothing.
	Reset(ctx context.Context) error

	Ping(ctx context.Context) error
	Close()
}

func seedTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		panic("watchlists: bad seed timestamp " + value)
	}
	return t
}

// seedWatchlists returns the demo fixtures the memory backend starts
// with. A fresh copy is built on every call so callers can mutate freely.
func seedWatchlists() []Watchlist {
	return []Watchlist{
		{
			ID:          "wl-favorites",
			Name:        "My Favorites",
			Description: "My favorite cryptocurrencies and markets",
			Items: []WatchlistItem{
				{ID: "wli-1", Kind: ItemKindToken, TokenID: "btc", CreatedAt: seedTime("2025-01-10T10:00:00Z")},
				{ID: "wli-2", Kind: ItemKindMarket, MarketID: "btc-usdt", CreatedAt: seedTime("2025-01-10T10:05:00Z")},
				{ID: "wli-3", Kind: ItemKindToken, TokenID: "eth", CreatedAt: seedTime("2025-01-10T10:10:00Z")},
			},
			CreatedAt: seedTime("2025-01-10T09:00:00Z"),
			UpdatedAt: seedTime("2025-01-10T10:10:00Z"),
		},
		{
			ID:          "wl-trending",
			Name:        "Trending Markets",
			Description: "Currently trending cryptocurrency markets",
			Items: []WatchlistItem{
				{ID: "wli-4", Kind: ItemKindMarket, MarketID: "eth-usdt", CreatedAt: seedTime("2025-01-11T09:00:00Z")},
				{ID: "wli-5", Kind: ItemKindToken, TokenID: "usdt", CreatedAt: seedTime("2025-01-11T09:30:00Z")},
			},
			CreatedAt: seedTime("2025-01-11T08:00:00Z"),
			UpdatedAt: seedTime("2025-01-11T09:30:00Z"),
		},
	}
}
