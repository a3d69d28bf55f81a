package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"coinfolio/internal/presenter"
	"coinfolio/internal/scheduler"
	"coinfolio/internal/wizard"
	"github.com/google/subcommands"
)

const defaultMarketCoin = "BTC"

// Markets shows the top exchanges for a currency pair.
type Markets struct {
	env *Env

	base    string
	top     int
	noColor bool
	watch   watchFlag
}

// NewMarkets creates the markets command.
func NewMarkets(env *Env) *Markets {
	return &Markets{env: env}
}

func (*Markets) Name() string     { return "markets" }
func (*Markets) Synopsis() string { return "Get top markets by volume for a currency pair." }
func (*Markets) Usage() string {
	return `markets [-base CODE] [-top N] [-watch[=SECONDS]] [NAME]

  Show the top exchanges by 24h volume for NAME (default BTC) in the base
  currency.

`
}

func (m *Markets) SetFlags(f *flag.FlagSet) {
	f.StringVar(&m.base, "base", wizard.DefaultBase, "currency to convert into")
	f.IntVar(&m.top, "top", defaultTop, "number of top exchanges by volume")
	f.BoolVar(&m.noColor, "no-color", false, "disable colorized output")
	f.Var(&m.watch, "watch", "refresh every `SECONDS` (default from config if bare)")
}

func (m *Markets) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		return m.env.fail(usageError("markets takes at most one coin, got %q", f.Args()))
	}
	if m.top <= 0 {
		return m.env.fail(usageError("-top must be positive, got %d", m.top))
	}

	name := defaultMarketCoin
	if f.NArg() == 1 {
		name = strings.ToUpper(f.Arg(0))
	}

	if err := m.env.schedule(ctx, &m.watch, m.tick(name, strings.ToUpper(m.base))); err != nil {
		return m.env.fail(err)
	}
	return subcommands.ExitSuccess
}

func (m *Markets) tick(name, base string) scheduler.TickFunc {
	p := painter(!m.noColor)

	return func(ctx context.Context) (string, error) {
		// The exchanges endpoint carries no display symbol; take it from the
		// aggregate quote.
		prices, err := m.env.Feed.Prices(ctx, []string{name}, base, "")
		if err != nil || prices == nil {
			return "", err
		}
		_, display, ok := prices.Quote(name, base)
		if !ok {
			return "", fmt.Errorf("%w: %s in %s", ErrNoQuote, name, base)
		}

		markets, err := m.env.Feed.TopExchanges(ctx, name, base, m.top)
		if err != nil || len(markets) == 0 {
			return "", err
		}

		banner := presenter.Banner(p, m.env.now(),
			presenter.Field{Label: "Coin", Value: name},
			presenter.Field{Label: "Base Currency", Value: base},
		)
		return banner + presenter.MarketsTable(p, display.ToSymbol, markets) + "\n", nil
	}
}
