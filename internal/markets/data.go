package markets

import "time"

var tokenTable = []Token{
	{ID: "btc", Symbol: "BTC", Name: "Bitcoin", Decimals: 8},
	{ID: "eth", Symbol: "ETH", Name: "Ethereum", Decimals: 18},
	{ID: "usdt", Symbol: "USDT", Name: "Tether USD", Decimals: 6},
}

var marketTable = []Market{
	{ID: "btc-usdt", BaseTokenID: "btc", QuoteTokenID: "usdt", Venue: VenueSimulated, Status: StatusActive},
	{ID: "eth-usdt", BaseTokenID: "eth", QuoteTokenID: "usdt", Venue: VenueSimulated, Status: StatusActive},
}

// mockPrices is the fixed price table for the simulated venue. Markets
// missing from it quote at 0.
var mockPrices = map[string]float64{
	"btc-usdt": 43250.50,
	"eth-usdt": 2285.75,
}

func mockPriceFeed(marketID string) PriceFeed {
	return PriceFeed{
		MarketID:  marketID,
		Price:     mockPrices[marketID],
		Timestamp: time.Now().UTC(),
	}
}

// MockPrice returns the fixed quote for a market id, 0 if unmapped.
func MockPrice(marketID string) float64 {
	return mockPrices[marketID]
}
