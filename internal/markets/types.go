package markets

import "time"

// Venue is the exchange or simulated source a market is associated with.
type Venue string

const (
	VenueBinance   Venue = "BINANCE"
	VenueCoinbase  Venue = "COINBASE"
	VenueKraken    Venue = "KRAKEN"
	VenueSimulated Venue = "SIMULATED"
)

type MarketStatus string

const (
	StatusActive   MarketStatus = "ACTIVE"
	StatusInactive MarketStatus = "INACTIVE"
)

// Token is immutable reference data; identity is the id.
type Token struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
}

// Market references its base and quote tokens by id. Both must resolve
// against the token table; a dangling reference is a configuration error.
type Market struct {
	ID           string       `json:"id"`
	BaseTokenID  string       `json:"baseTokenId"`
	QuoteTokenID string       `json:"quoteTokenId"`
	Venue        Venue        `json:"venue"`
	Status       MarketStatus `json:"status"`
}

// MarketWithTokens is a market joined with its resolved tokens.
type MarketWithTokens struct {
	Market
	BaseToken  Token `json:"baseToken"`
	QuoteToken Token `json:"quoteToken"`
}

// PriceFeed is ephemeral: regenerated per request from the mock source.
type PriceFeed struct {
	MarketID  string    `json:"marketId"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}
