package commands

import (
	"testing"

	"coinfolio/internal/cryptocompare"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func displayQuotes() *cryptocompare.PriceResponse {
	return &cryptocompare.PriceResponse{
		Raw: map[string]map[string]cryptocompare.RawQuote{
			"BTC": {"USD": {Price: 7002.45, Change24Hour: -150.2}},
			"ETH": {"USD": {Price: 300.1, Change24Hour: 4.5}},
		},
		Display: map[string]map[string]cryptocompare.DisplayQuote{
			"BTC": {"USD": {ToSymbol: "$", Price: "$ 7,002.45", Change24Hour: "$ -150.20", ChangePct24Hour: "-2.10"}},
			"ETH": {"USD": {ToSymbol: "$", Price: "$ 300.10", Change24Hour: "$ 4.50", ChangePct24Hour: "1.52"}},
		},
	}
}

func TestCoins_NamedCoins(t *testing.T) {
	// Arrange
	env := newTestEnv("")
	env.feed.On("Prices", mock.Anything, []string{"BTC", "ETH"}, "USD", "CCCAGG").Return(displayQuotes(), nil).Once()

	// Act
	status := run(t, NewCoins(env.Env), "-no-color", "btc", "eth")

	// Assert
	require.Equal(t, subcommands.ExitSuccess, status, env.errOut.String())
	out := env.out.String()
	assert.Contains(t, out, "Exchange CCCAGG  Currency USD  Time "+fixedTime)
	assert.Contains(t, out, "$ 7,002.45")
	assert.Contains(t, out, "▼ -2.10%")
	assert.Contains(t, out, "▲ 1.52%")
	env.feed.AssertNotCalled(t, "TopCoins", mock.Anything, mock.Anything, mock.Anything)
}

func TestCoins_TopCoinsByDefault(t *testing.T) {
	env := newTestEnv("")
	env.feed.On("TopCoins", mock.Anything, "USD", 2).Return([]string{"BTC", "ETH"}, nil).Once()
	env.feed.On("Prices", mock.Anything, []string{"BTC", "ETH"}, "USD", "Kraken").Return(displayQuotes(), nil).Once()

	status := run(t, NewCoins(env.Env), "-no-color", "-top", "2", "-exchange", "Kraken")

	require.Equal(t, subcommands.ExitSuccess, status, env.errOut.String())
	assert.Contains(t, env.out.String(), "Exchange Kraken")
	env.feed.AssertExpectations(t)
}

func TestCoins_TimeoutRendersNothing(t *testing.T) {
	env := newTestEnv("")
	env.feed.On("Prices", mock.Anything, []string{"BTC"}, "USD", "CCCAGG").Return(nil, nil).Once()

	status := run(t, NewCoins(env.Env), "BTC")

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Empty(t, env.out.String())
}

func TestCoins_UpstreamError(t *testing.T) {
	env := newTestEnv("")
	env.feed.On("TopCoins", mock.Anything, "USD", defaultTop).Return(nil, cryptocompare.ErrUpstream).Once()

	status := run(t, NewCoins(env.Env))

	assert.Equal(t, subcommands.ExitFailure, status)
	assert.Contains(t, env.errOut.String(), "Error:")
}

func TestCoins_InvalidTop(t *testing.T) {
	env := newTestEnv("")

	status := run(t, NewCoins(env.Env), "-top", "0")

	assert.Equal(t, subcommands.ExitUsageError, status)
	env.feed.AssertNotCalled(t, "TopCoins", mock.Anything, mock.Anything, mock.Anything)
}
