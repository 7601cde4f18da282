package prices

import "context"

// Tick is a single price update for a market.
type Tick struct {
	MarketID string  `json:"marketId"`
	Price    float64 `json:"price"`
	TsMs     int64   `json:"ts"` // milliseconds since epoch
}

// Source produces live ticks for a market. Implementations block until
// ctx is canceled, writing ticks to out as they arrive.
type Source interface {
	SubscribeLive(ctx context.Context, marketID string, out chan<- Tick) error
	Name() string
}
