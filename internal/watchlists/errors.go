package watchlists

import "errors"

// Store errors. Message text is part of the API contract: clients and
// tests assert on it.
var (
	ErrWatchlistNotFound = errors.New("Watchlist not found")
	ErrItemNotFound      = errors.New("Item not found in watchlist")
	ErrDuplicateToken    = errors.New("Token already exists in watchlist")
	ErrDuplicateMarket   = errors.New("Market already exists in watchlist")
)

// IsNotFound reports whether err is one of the not-found conditions.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWatchlistNotFound) || errors.Is(err, ErrItemNotFound)
}

// IsDuplicate reports whether err is a duplicate-item conflict.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateToken) || errors.Is(err, ErrDuplicateMarket)
}
