package markets

import "fmt"

// Service exposes the in-process token and market catalog. All data is
// loaded once at construction; lookups never touch I/O.
type Service struct {
	tokens  []Token
	markets []MarketWithTokens
}

// NewService joins the market table against the token table. A market
// referencing a missing token fails construction; the caller is expected
// to treat that as fatal.
func NewService() (*Service, error) {
	tokensByID := make(map[string]Token, len(tokenTable))
	for _, t := range tokenTable {
		tokensByID[t.ID] = t
	}

	joined := make([]MarketWithTokens, 0, len(marketTable))
	for _, m := range marketTable {
		base, baseOK := tokensByID[m.BaseTokenID]
		quote, quoteOK := tokensByID[m.QuoteTokenID]
		if !baseOK || !quoteOK {
			return nil, fmt.Errorf("invalid market configuration: %s", m.ID)
		}
		joined = append(joined, MarketWithTokens{
			Market:     m,
			BaseToken:  base,
			QuoteToken: quote,
		})
	}

	return &Service{
		tokens:  append([]Token(nil), tokenTable...),
		markets: joined,
	}, nil
}

// ListTokens returns all tokens in table order.
func (s *Service) ListTokens() []Token {
	return append([]Token(nil), s.tokens...)
}

// ListMarkets returns all markets joined with their tokens.
func (s *Service) ListMarkets() []MarketWithTokens {
	return append([]MarketWithTokens(nil), s.markets...)
}

func (s *Service) GetTokenByID(id string) (Token, bool) {
	for _, t := range s.tokens {
		if t.ID == id {
			return t, true
		}
	}
	return Token{}, false
}

func (s *Service) GetMarketByID(id string) (MarketWithTokens, bool) {
	for _, m := range s.markets {
		if m.ID == id {
			return m, true
		}
	}
	return MarketWithTokens{}, false
}

// LatestPriceFeed returns a freshly generated feed for the market, or
// false if the market is unknown.
func (s *Service) LatestPriceFeed(id string) (PriceFeed, bool) {
	if _, ok := s.GetMarketByID(id); !ok {
		return PriceFeed{}, false
	}
	return mockPriceFeed(id), true
}
