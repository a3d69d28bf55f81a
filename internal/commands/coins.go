package commands

import (
	"context"
	"flag"
	"strings"

	"coinfolio/internal/presenter"
	"coinfolio/internal/scheduler"
	"coinfolio/internal/wizard"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

const defaultTop = 10

// Coins shows 24h trading data for a list of coins.
type Coins struct {
	env *Env

	base     string
	exchange string
	top      int
	noColor  bool
	watch    watchFlag
}

// NewCoins creates the coins command.
func NewCoins(env *Env) *Coins {
	return &Coins{env: env}
}

func (*Coins) Name() string     { return "coins" }
func (*Coins) Synopsis() string { return "Get the current trading data for coins." }
func (*Coins) Usage() string {
	return `coins [-base CODE] [-exchange NAME] [-top N] [-watch[=SECONDS]] [NAMES...]

  Show 24h trading data for the named coins, or for the top coins by total
  volume across all markets when no names are given.

`
}

func (c *Coins) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", wizard.DefaultBase, "currency to convert into")
	f.StringVar(&c.exchange, "exchange", wizard.DefaultExchange, "exchange to price coins on")
	f.IntVar(&c.top, "top", defaultTop, "number of top coins by volume shown when no names are given")
	f.BoolVar(&c.noColor, "no-color", false, "disable colorized output")
	f.Var(&c.watch, "watch", "refresh every `SECONDS` (default from config if bare)")
}

func (c *Coins) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.top <= 0 {
		return c.env.fail(usageError("-top must be positive, got %d", c.top))
	}

	base := strings.ToUpper(c.base)
	names := make([]string, 0, f.NArg())
	for _, name := range f.Args() {
		names = append(names, strings.ToUpper(name))
	}

	if err := c.env.schedule(ctx, &c.watch, c.tick(names, base)); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}

func (c *Coins) tick(names []string, base string) scheduler.TickFunc {
	p := painter(!c.noColor)

	return func(ctx context.Context) (string, error) {
		shown := names
		if len(shown) == 0 {
			top, err := c.env.Feed.TopCoins(ctx, base, c.top)
			if err != nil || len(top) == 0 {
				return "", err
			}
			shown = top
		}

		prices, err := c.env.Feed.Prices(ctx, shown, base, c.exchange)
		if err != nil || prices == nil {
			return "", err
		}
		c.env.Logger.Debug("Fetched coins", zap.Strings("names", shown), zap.String("base", base))

		banner := presenter.Banner(p, c.env.now(),
			presenter.Field{Label: "Exchange", Value: c.exchange},
			presenter.Field{Label: "Currency", Value: base},
		)
		return banner + presenter.CoinsTable(p, shown, base, prices) + "\n", nil
	}
}
