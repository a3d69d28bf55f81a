package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"

	"coinfolio/internal/cryptocompare"
	"coinfolio/internal/portfolio"
	"coinfolio/internal/presenter"
	"coinfolio/internal/prompt"
	"coinfolio/internal/scheduler"
	"coinfolio/internal/terminal"
	"coinfolio/internal/wizard"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// Holdings tracks the value of the portfolio document.
type Holdings struct {
	env   *Env
	store *portfolio.Store

	base     string
	exchange string
	noColor  bool
	add      bool
	remove   bool
	clear    bool
	offline  bool
	edit     editFlag
	watch    watchFlag
}

// NewHoldings creates the holdings command over store.
func NewHoldings(env *Env, store *portfolio.Store) *Holdings {
	return &Holdings{env: env, store: store}
}

func (*Holdings) Name() string     { return "holdings" }
func (*Holdings) Synopsis() string { return "Keep track of all your cryptocurrency investments." }
func (*Holdings) Usage() string {
	return `holdings [-add | -remove | -clear] [-base CODE] [-exchange NAME] [-watch[=SECONDS]] [-offline]
holdings -edit[=EDITOR]

  Show the current value of your holdings. The first run asks for your
  base currency, exchange and coins, and saves them to coinfolio.toml in
  the working or home directory.

`
}

func (h *Holdings) SetFlags(f *flag.FlagSet) {
	f.StringVar(&h.base, "base", "", "currency to convert into (default: saved setting)")
	f.StringVar(&h.exchange, "exchange", "", "exchange to price coins on (default: saved setting)")
	f.BoolVar(&h.noColor, "no-color", false, "disable colorized output")
	f.BoolVar(&h.add, "add", false, "add a coin without altering existing holdings")
	f.BoolVar(&h.remove, "remove", false, "remove coins from holdings")
	f.BoolVar(&h.clear, "clear", false, "remove all coins from holdings")
	f.BoolVar(&h.offline, "offline", false, "use the last cached prices instead of the network")
	f.Var(&h.edit, "edit", "open the holdings file in `EDITOR` ($VISUAL, $EDITOR or vi if bare)")
	f.Var(&h.watch, "watch", "refresh every `SECONDS` (default from config if bare)")
}

func (h *Holdings) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 0 {
		return h.env.fail(usageError("holdings takes no arguments, got %q", f.Args()))
	}
	if err := h.run(ctx); err != nil {
		return h.env.fail(err)
	}
	return subcommands.ExitSuccess
}

func (h *Holdings) run(ctx context.Context) error {
	logger := h.env.Logger.Named("holdings")

	readErr := h.store.Read()

	// An invalid document can still be opened for fixing.
	if h.edit.set {
		return h.openEditor(ctx)
	}
	if readErr != nil && !errors.Is(readErr, portfolio.ErrNotFound) {
		return readErr
	}

	defaults := portfolio.Settings{
		Base:     strings.ToUpper(h.base),
		Exchange: h.exchange,
		Color:    !h.noColor,
	}

	runner := prompt.NewRunner(h.env.In, h.env.Out, "[c] ")
	editor := wizard.New(runner, h.store, h.env.Logger)
	err := editor.Edit(ctx, wizard.Flags{Add: h.add, Remove: h.remove, Clear: h.clear}, defaults)
	if errors.Is(err, prompt.ErrInterrupted) {
		return err
	}
	if runner.Lines() > 0 {
		terminal.New(h.env.Out).ClearLines(runner.Lines())
	}
	empty := errors.Is(err, wizard.ErrEmptyPortfolio)
	if err != nil && !empty {
		return err
	}

	if err := h.store.Write(true); err != nil {
		return err
	}
	if empty {
		fmt.Fprintln(h.env.Out, painter(h.colorEnabled()).Paint("Please add holdings to your portfolio!", "2"))
		return nil
	}

	settings, err := h.store.Settings()
	if err != nil {
		settings = portfolio.Settings{Base: wizard.DefaultBase, Exchange: wizard.DefaultExchange, Color: true}
	}
	if h.base != "" {
		settings.Base = strings.ToUpper(h.base)
	}
	if h.exchange != "" {
		settings.Exchange = h.exchange
	}
	holdings, err := h.store.Holdings()
	if err != nil {
		return err
	}

	logger.Debug("Rendering holdings",
		zap.String("base", settings.Base),
		zap.String("exchange", settings.Exchange),
		zap.Int("count", len(holdings)),
		zap.Bool("offline", h.offline))

	return h.env.schedule(ctx, &h.watch, h.tick(settings, holdings))
}

func (h *Holdings) tick(settings portfolio.Settings, holdings []portfolio.Holding) scheduler.TickFunc {
	names := coinNames(holdings)
	p := painter(settings.Color && !h.noColor)

	return func(ctx context.Context) (string, error) {
		prices, err := h.prices(ctx, names, settings)
		if err != nil || prices == nil {
			return "", err
		}

		var symbol string
		positions := make([]presenter.Position, 0, len(holdings))
		for _, holding := range holdings {
			raw, display, ok := prices.Quote(holding.Name, settings.Base)
			if !ok {
				return "", fmt.Errorf("%w: %s in %s", ErrNoQuote, holding.Name, settings.Base)
			}
			symbol = display.ToSymbol
			positions = append(positions, presenter.Position{
				Name:        holding.Name,
				Amount:      holding.Amount,
				BuyPrice:    holding.Price,
				MarketPrice: raw.Price,
			})
		}

		banner := presenter.Banner(p, h.env.now(),
			presenter.Field{Label: "Exchange", Value: settings.Exchange},
			presenter.Field{Label: "Currency", Value: settings.Base},
		)
		return banner + presenter.HoldingsTable(p, symbol, positions) + "\n", nil
	}
}

// prices fetches live quotes and records them in the cache, or reads the
// cache alone in offline mode.
func (h *Holdings) prices(ctx context.Context, names []string, settings portfolio.Settings) (*cryptocompare.PriceResponse, error) {
	if h.offline {
		if h.env.Cache == nil {
			return nil, ErrNoCache
		}
		return h.env.Cache.Prices(names, settings.Base, settings.Exchange)
	}

	prices, err := h.env.Feed.Prices(ctx, names, settings.Base, settings.Exchange)
	if err != nil || prices == nil {
		return nil, err
	}
	if h.env.Cache != nil {
		if err := h.env.Cache.Save(prices, settings.Exchange, h.env.now()); err != nil {
			h.env.Logger.Warn("Failed to cache quotes", zap.Error(err))
		}
	}
	return prices, nil
}

// colorEnabled applies -no-color over the stored color setting. Without
// stored settings color is on.
func (h *Holdings) colorEnabled() bool {
	settings, err := h.store.Settings()
	return !h.noColor && (err != nil || settings.Color)
}

func (h *Holdings) openEditor(ctx context.Context) error {
	path, err := h.store.Find()
	if err != nil {
		fmt.Fprintln(h.env.Out, "Sorry, no holdings configuration found.")
		fmt.Fprintln(h.env.Out, `Run "$ coinfolio holdings" to setup a new portfolio.`)
		return nil
	}

	command := strings.Fields(editorCommand(h.edit.editor))
	args := append(command[1:], path)
	cmd := exec.CommandContext(ctx, command[0], args...)
	cmd.Stdin = h.env.In
	cmd.Stdout = h.env.Out
	cmd.Stderr = h.env.Err

	h.env.Logger.Debug("Opening editor", zap.Strings("command", cmd.Args))
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", command[0], err)
	}
	return nil
}

// editorCommand picks the explicit editor, then $VISUAL, then $EDITOR,
// then vi.
func editorCommand(explicit string) string {
	for _, candidate := range []string{explicit, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if strings.TrimSpace(candidate) != "" {
			return candidate
		}
	}
	return "vi"
}

// coinNames returns the distinct coin names of holdings in first-seen order.
func coinNames(holdings []portfolio.Holding) []string {
	names := make([]string, 0, len(holdings))
	for _, h := range holdings {
		if !slices.Contains(names, h.Name) {
			names = append(names, h.Name)
		}
	}
	return names
}
