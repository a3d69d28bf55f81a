package commands

import (
	"bytes"
	"context"
	"flag"
	"io"
	"strings"
	"testing"
	"time"

	"coinfolio/internal/cryptocompare"
	"github.com/google/subcommands"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockFeed is a mock implementation of cryptocompare.Feed.
type MockFeed struct {
	mock.Mock
}

func (m *MockFeed) Prices(ctx context.Context, symbols []string, base, exchange string) (*cryptocompare.PriceResponse, error) {
	args := m.Called(ctx, symbols, base, exchange)
	resp, _ := args.Get(0).(*cryptocompare.PriceResponse)
	return resp, args.Error(1)
}

func (m *MockFeed) TopCoins(ctx context.Context, base string, limit int) ([]string, error) {
	args := m.Called(ctx, base, limit)
	names, _ := args.Get(0).([]string)
	return names, args.Error(1)
}

func (m *MockFeed) TopExchanges(ctx context.Context, symbol, base string, limit int) ([]cryptocompare.Market, error) {
	args := m.Called(ctx, symbol, base, limit)
	markets, _ := args.Get(0).([]cryptocompare.Market)
	return markets, args.Error(1)
}

var fixedNow = time.Date(2026, time.October, 19, 14, 30, 5, 0, time.UTC)

const fixedTime = "19 October 2026 at 02:30:05 PM UTC"

// testEnv bundles an Env with its captured output.
type testEnv struct {
	*Env
	feed   *MockFeed
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

func newTestEnv(input string) *testEnv {
	feed := new(MockFeed)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &testEnv{
		Env: &Env{
			Feed:     feed,
			In:       strings.NewReader(input),
			Out:      out,
			Err:      errOut,
			Now:      func() time.Time { return fixedNow },
			Interval: 5,
			Logger:   zap.NewNop(),
		},
		feed:   feed,
		out:    out,
		errOut: errOut,
	}
}

// run parses args the way the commander does and executes cmd.
func run(t *testing.T, cmd subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.SetFlags(fs)
	require.NoError(t, fs.Parse(args))
	return cmd.Execute(context.Background(), fs)
}

// quotes builds a price response for base "USD" with the "$" display symbol.
func quotes(prices map[string]float64) *cryptocompare.PriceResponse {
	resp := &cryptocompare.PriceResponse{
		Raw:     make(map[string]map[string]cryptocompare.RawQuote),
		Display: make(map[string]map[string]cryptocompare.DisplayQuote),
	}
	for symbol, price := range prices {
		resp.Raw[symbol] = map[string]cryptocompare.RawQuote{"USD": {Price: price}}
		resp.Display[symbol] = map[string]cryptocompare.DisplayQuote{"USD": {ToSymbol: "$"}}
	}
	return resp
}
