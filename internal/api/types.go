package api

import (
	"github.com/archimedes-labs/archimedes-backend/internal/markets"
	"github.com/archimedes-labs/archimedes-backend/internal/watchlists"
)

// Every endpoint responds with one of two envelopes: a success body
// carrying the payload under data, or an error body with a message and
// optional per-field details.

type SuccessResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message string                 `json:"message"`
	Errors  watchlists.FieldErrors `json:"errors,omitempty"`
}

type TokensDTO struct {
	Tokens []markets.Token `json:"tokens"`
}

type MarketsDTO struct {
	Markets []markets.MarketWithTokens `json:"markets"`
}

type MarketDetailDTO struct {
	Market          markets.MarketWithTokens `json:"market"`
	LatestPriceFeed *markets.PriceFeed       `json:"latestPriceFeed"`
}

type WatchlistsDTO struct {
	Watchlists []watchlists.EnrichedWatchlist `json:"watchlists"`
}

type EnrichedWatchlistDTO struct {
	Watchlist watchlists.EnrichedWatchlist `json:"watchlist"`
}

type WatchlistDTO struct {
	Watchlist *watchlists.Watchlist `json:"watchlist"`
}

type DeletedDTO struct {
	Success bool `json:"success"`
}

type HealthDTO struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type SystemInfoDTO struct {
	Service string `json:"service"`
	Env     string `json:"env"`
	Ts      string `json:"ts"`
}
