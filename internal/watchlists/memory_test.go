package watchlists

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSeedData(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	lists, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 2)

	// Newest first.
	assert.Equal(t, "wl-trending", lists[0].ID)
	assert.Equal(t, "wl-favorites", lists[1].ID)
	assert.Len(t, lists[1].Items, 3)
	assert.Len(t, lists[0].Items, 2)
}

func TestMemoryStoreGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	wl, err := s.Get(ctx, "wl-favorites")
	require.NoError(t, err)
	assert.Equal(t, "My Favorites", wl.Name)

	_, err = s.Get(ctx, "wl-missing")
	assert.ErrorIs(t, err, ErrWatchlistNotFound)
}

func TestMemoryStoreCreate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	desc := "only bitcoin"
	wl, err := s.Create(ctx, CreateWatchlistInput{Name: "Maxi", Description: &desc})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(wl.ID, "wl-"))
	assert.Equal(t, "Maxi", wl.Name)
	assert.Equal(t, "only bitcoin", wl.Description)
	assert.NotNil(t, wl.Items)
	assert.Empty(t, wl.Items)
	assert.False(t, wl.CreatedAt.IsZero())
	assert.Equal(t, wl.CreatedAt, wl.UpdatedAt)

	lists, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, lists, 3)
}

func TestMemoryStoreUpdateMetadata(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	name := "Renamed"
	wl, err := s.UpdateMetadata(ctx, "wl-favorites", UpdateWatchlistInput{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Renamed", wl.Name)
	// Description untouched.
	assert.Equal(t, "My favorite cryptocurrencies and markets", wl.Description)
	assert.True(t, wl.UpdatedAt.After(wl.CreatedAt))

	_, err = s.UpdateMetadata(ctx, "wl-missing", UpdateWatchlistInput{Name: &name})
	assert.ErrorIs(t, err, ErrWatchlistNotFound)
}

func TestMemoryStoreAddToken(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	wl, err := s.AddToken(ctx, "wl-favorites", "usdt")
	require.NoError(t, err)
	require.Len(t, wl.Items, 4)

	added := wl.Items[3]
	assert.True(t, strings.HasPrefix(added.ID, "wli-"))
	assert.Equal(t, ItemKindToken, added.Kind)
	assert.Equal(t, "usdt", added.TokenID)
	assert.Empty(t, added.MarketID)
}

func TestMemoryStoreAddTokenDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	// btc is already wli-1 in the seed data.
	_, err := s.AddToken(ctx, "wl-favorites", "btc")
	assert.ErrorIs(t, err, ErrDuplicateToken)
}

func TestMemoryStoreAddMarketDuplicate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.AddMarket(ctx, "wl-favorites", "btc-usdt")
	assert.ErrorIs(t, err, ErrDuplicateMarket)

	// An existing eth token item does not conflict with the eth-usdt market.
	wl, err := s.AddMarket(ctx, "wl-favorites", "eth-usdt")
	require.NoError(t, err)
	assert.Len(t, wl.Items, 4)
}

func TestMemoryStoreRemoveItem(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	wl, err := s.RemoveItem(ctx, "wl-favorites", "wli-2")
	require.NoError(t, err)
	require.Len(t, wl.Items, 2)
	for _, item := range wl.Items {
		assert.NotEqual(t, "wli-2", item.ID)
	}

	_, err = s.RemoveItem(ctx, "wl-favorites", "wli-404")
	assert.ErrorIs(t, err, ErrItemNotFound)

	// Item belongs to another watchlist.
	_, err = s.RemoveItem(ctx, "wl-trending", "wli-1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "wl-favorites"))

	_, err := s.Get(ctx, "wl-favorites")
	assert.ErrorIs(t, err, ErrWatchlistNotFound)

	assert.ErrorIs(t, s.Delete(ctx, "wl-favorites"), ErrWatchlistNotFound)
}

func TestMemoryStoreReset(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Delete(ctx, "wl-favorites"))
	_, err := s.Create(ctx, CreateWatchlistInput{Name: "Extra"})
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	lists, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, lists, 2)
	assert.Equal(t, "wl-trending", lists[0].ID)
	assert.Equal(t, "wl-favorites", lists[1].ID)
}

func TestMemoryStoreCopyOnWrite(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	wl, err := s.Get(ctx, "wl-favorites")
	require.NoError(t, err)

	wl.Name = "Mutated"
	wl.Items[0].TokenID = "mutated"

	fresh, err := s.Get(ctx, "wl-favorites")
	require.NoError(t, err)
	assert.Equal(t, "My Favorites", fresh.Name)
	assert.Equal(t, "btc", fresh.Items[0].TokenID)
}
