package watchlists

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps watchlists in process memory, seeded with demo data.
// Writes replace the affected watchlist wholesale (copy-on-write), so
// values handed out earlier are never mutated underneath the caller.
type MemoryStore struct {
	mu         sync.RWMutex
	watchlists []Watchlist
	now        func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		watchlists: seedWatchlists(),
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func cloneWatchlist(wl Watchlist) Watchlist {
	out := wl
	out.Items = append([]WatchlistItem(nil), wl.Items...)
	return out
}

func (s *MemoryStore) List(ctx context.Context) ([]Watchlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Watchlist, 0, len(s.watchlists))
	for _, wl := range s.watchlists {
		out = append(out, cloneWatchlist(wl))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Watchlist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, wl := range s.watchlists {
		if wl.ID == id {
			out := cloneWatchlist(wl)
			return &out, nil
		}
	}
	return nil, ErrWatchlistNotFound
}

func (s *MemoryStore) Create(ctx context.Context, in CreateWatchlistInput) (*Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	wl := Watchlist{
		ID:        "wl-" + uuid.NewString(),
		Name:      in.Name,
		Items:     []WatchlistItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Description != nil {
		wl.Description = *in.Description
	}

	s.watchlists = append(s.watchlists, wl)
	out := cloneWatchlist(wl)
	return &out, nil
}

func (s *MemoryStore) UpdateMetadata(ctx context.Context, id string, in UpdateWatchlistInput) (*Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrWatchlistNotFound
	}

	wl := cloneWatchlist(s.watchlists[idx])
	if in.Name != nil {
		wl.Name = *in.Name
	}
	if in.Description != nil {
		wl.Description = *in.Description
	}
	wl.UpdatedAt = s.now()

	s.watchlists[idx] = wl
	out := cloneWatchlist(wl)
	return &out, nil
}

func (s *MemoryStore) AddToken(ctx context.Context, id, tokenID string) (*Watchlist, error) {
	return s.addItem(id, WatchlistItem{Kind: ItemKindToken, TokenID: tokenID})
}

func (s *MemoryStore) AddMarket(ctx context.Context, id, marketID string) (*Watchlist, error) {
	return s.addItem(id, WatchlistItem{Kind: ItemKindMarket, MarketID: marketID})
}

func (s *MemoryStore) addItem(id string, item WatchlistItem) (*Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrWatchlistNotFound
	}

	wl := cloneWatchlist(s.watchlists[idx])
	for _, existing := range wl.Items {
		if item.Kind == ItemKindToken && existing.TokenID == item.TokenID {
			return nil, ErrDuplicateToken
		}
		if item.Kind == ItemKindMarket && existing.MarketID == item.MarketID {
			return nil, ErrDuplicateMarket
		}
	}

	item.ID = "wli-" + uuid.NewString()
	item.CreatedAt = s.now()
	wl.Items = append(wl.Items, item)
	wl.UpdatedAt = item.CreatedAt

	s.watchlists[idx] = wl
	out := cloneWatchlist(wl)
	return &out, nil
}

func (s *MemoryStore) RemoveItem(ctx context.Context, id, itemID string) (*Watchlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil, ErrWatchlistNotFound
	}

	wl := cloneWatchlist(s.watchlists[idx])
	itemIdx := -1
	for i, item := range wl.Items {
		if item.ID == itemID {
			itemIdx = i
			break
		}
	}
	if itemIdx < 0 {
		return nil, ErrItemNotFound
	}

	wl.Items = append(wl.Items[:itemIdx], wl.Items[itemIdx+1:]...)
	wl.UpdatedAt = s.now()

	s.watchlists[idx] = wl
	out := cloneWatchlist(wl)
	return &out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return ErrWatchlistNotFound
	}

	// Items go with the watchlist; nothing else references them.
	s.watchlists = append(s.watchlists[:idx], s.watchlists[idx+1:]...)
	return nil
}

func (s *MemoryStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.watchlists = seedWatchlists()
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (s *MemoryStore) Close() {}

// indexOf must be called with the lock held.
func (s *MemoryStore) indexOf(id string) int {
	for i, wl := range s.watchlists {
		if wl.ID == id {
			return i
		}
	}
	return -1
}
