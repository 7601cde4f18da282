package watchlists

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateWatchlistInputValidate(t *testing.T) {
	longName := strings.Repeat("a", 101)
	longDesc := strings.Repeat("b", 501)
	okDesc := "fine"

	testCases := []struct {
		name   string
		input  CreateWatchlistInput
		field  string
		errMsg string
	}{
		{
			name:  "valid",
			input: CreateWatchlistInput{Name: "Alpha", Description: &okDesc},
		},
		{
			name:   "missing name",
			input:  CreateWatchlistInput{},
			field:  "name",
			errMsg: "Name is required",
		},
		{
			name:   "name too long",
			input:  CreateWatchlistInput{Name: longName},
			field:  "name",
			errMsg: "Name too long",
		},
		{
			name:   "description too long",
			input:  CreateWatchlistInput{Name: "Alpha", Description: &longDesc},
			field:  "description",
			errMsg: "Description too long",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fe := tc.input.Validate()
			if tc.field == "" {
				assert.True(t, fe.Empty())
				return
			}
			assert.Contains(t, fe[tc.field], tc.errMsg)
		})
	}
}

func TestUpdateWatchlistInputValidate(t *testing.T) {
	empty := ""
	long := strings.Repeat("a", 101)
	name := "ok"

	fe := UpdateWatchlistInput{}.Validate()
	assert.True(t, fe.Empty(), "nil fields mean no change, not an error")

	fe = UpdateWatchlistInput{Name: &empty}.Validate()
	assert.Contains(t, fe["name"], "Name is required")

	fe = UpdateWatchlistInput{Name: &long}.Validate()
	assert.Contains(t, fe["name"], "Name too long")

	fe = UpdateWatchlistInput{Name: &name}.Validate()
	assert.True(t, fe.Empty())
}

func TestItemInputsValidate(t *testing.T) {
	assert.Contains(t, AddTokenInput{}.Validate()["tokenId"], "Token ID is required")
	assert.True(t, AddTokenInput{TokenID: "btc"}.Validate().Empty())

	assert.Contains(t, AddMarketInput{}.Validate()["marketId"], "Market ID is required")
	assert.True(t, AddMarketInput{MarketID: "btc-usdt"}.Validate().Empty())

	assert.Contains(t, RemoveItemInput{}.Validate()["itemId"], "Item ID is required")
	assert.True(t, RemoveItemInput{ItemID: "wli-1"}.Validate().Empty())
}
