package markets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)
	require.NotNil(t, svc)

	tokens := svc.ListTokens()
	assert.Len(t, tokens, 3)
	assert.Equal(t, "btc", tokens[0].ID)
	assert.Equal(t, "BTC", tokens[0].Symbol)
	assert.Equal(t, 8, tokens[0].Decimals)
}

func TestListMarketsJoinsTokens(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)

	ms := svc.ListMarkets()
	require.Len(t, ms, 2)

	btcUsdt := ms[0]
	assert.Equal(t, "btc-usdt", btcUsdt.ID)
	assert.Equal(t, "BTC", btcUsdt.BaseToken.Symbol)
	assert.Equal(t, "USDT", btcUsdt.QuoteToken.Symbol)
	assert.Equal(t, VenueSimulated, btcUsdt.Venue)
	assert.Equal(t, StatusActive, btcUsdt.Status)
}

func TestGetTokenByID(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)

	token, ok := svc.GetTokenByID("eth")
	require.True(t, ok)
	assert.Equal(t, "Ethereum", token.Name)
	assert.Equal(t, 18, token.Decimals)

	_, ok = svc.GetTokenByID("doge")
	assert.False(t, ok)
}

func TestGetMarketByID(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)

	market, ok := svc.GetMarketByID("eth-usdt")
	require.True(t, ok)
	assert.Equal(t, "eth", market.BaseTokenID)
	assert.Equal(t, "usdt", market.QuoteTokenID)

	_, ok = svc.GetMarketByID("doge-usdt")
	assert.False(t, ok)
}

func TestLatestPriceFeed(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)

	feed, ok := svc.LatestPriceFeed("btc-usdt")
	require.True(t, ok)
	assert.Equal(t, "btc-usdt", feed.MarketID)
	assert.Equal(t, 43250.50, feed.Price)
	assert.False(t, feed.Timestamp.IsZero())

	_, ok = svc.LatestPriceFeed("unknown")
	assert.False(t, ok)
}

func TestLatestPriceFeedIsStable(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)

	first, _ := svc.LatestPriceFeed("eth-usdt")
	second, _ := svc.LatestPriceFeed("eth-usdt")
	assert.Equal(t, first.Price, second.Price)
	assert.Equal(t, 2285.75, first.Price)
}

func TestMutatingListResultsDoesNotAffectService(t *testing.T) {
	svc, err := NewService()
	require.NoError(t, err)

	tokens := svc.ListTokens()
	tokens[0].Symbol = "MUTATED"

	fresh := svc.ListTokens()
	assert.Equal(t, "BTC", fresh[0].Symbol)
}
