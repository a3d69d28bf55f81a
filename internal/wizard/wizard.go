// Package wizard holds the interactive flows that create and edit the
// portfolio document: setup, add, remove and clear.
package wizard

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"coinfolio/internal/portfolio"
	"coinfolio/internal/prompt"
	"go.uber.org/zap"
)

// ErrEmptyPortfolio is returned when a flow leaves no holdings behind. The
// holdings section has already been deleted from the store.
var ErrEmptyPortfolio = errors.New("portfolio has no holdings")

const (
	DefaultBase     = "USD"
	DefaultExchange = "CCCAGG"
)

// Action is the edit requested on an existing portfolio.
type Action int

const (
	ActionNone Action = iota
	ActionAdd
	ActionRemove
	ActionClear
)

func (a Action) String() string {
	switch a {
	case ActionAdd:
		return "add"
	case ActionRemove:
		return "remove"
	case ActionClear:
		return "clear"
	}
	return "none"
}

// Flags are the edit switches given on the command line.
type Flags struct {
	Add    bool
	Remove bool
	Clear  bool
}

// SelectAction picks the single action honored for flags. When several are
// set, add wins over remove, which wins over clear.
func SelectAction(f Flags) Action {
	switch {
	case f.Add:
		return ActionAdd
	case f.Remove:
		return ActionRemove
	case f.Clear:
		return ActionClear
	}
	return ActionNone
}

// Editor runs the flows against a store. It never writes the store to disk.
type Editor struct {
	runner *prompt.Runner
	store  *portfolio.Store
	logger *zap.Logger
}

// New creates an Editor.
func New(runner *prompt.Runner, store *portfolio.Store, logger *zap.Logger) *Editor {
	return &Editor{
		runner: runner,
		store:  store,
		logger: logger.Named("wizard"),
	}
}

// Edit runs the setup wizard when the store has no holdings, otherwise the
// action selected by flags. It returns ErrEmptyPortfolio when no holdings
// remain afterwards, and prompt.ErrInterrupted when the user aborted; in the
// latter case the store is left as it was.
func (e *Editor) Edit(ctx context.Context, flags Flags, defaults portfolio.Settings) error {
	var err error
	if !e.store.HasHoldings() {
		err = e.Setup(ctx, defaults)
	} else {
		action := SelectAction(flags)
		e.logger.Debug("Editing holdings", zap.Stringer("action", action))
		switch action {
		case ActionAdd:
			err = e.Add(ctx)
		case ActionRemove:
			err = e.Remove(ctx)
		case ActionClear:
			err = e.Clear(ctx)
		}
	}
	if err != nil {
		return err
	}

	if !e.store.HasHoldings() {
		e.store.Delete(portfolio.SectionHoldings)
		return ErrEmptyPortfolio
	}
	return nil
}

// Setup asks for the settings and any number of coins, then merges the
// result into the store.
func (e *Editor) Setup(ctx context.Context, defaults portfolio.Settings) error {
	if prior, err := e.store.Settings(); err == nil {
		if prior.Base != "" {
			defaults.Base = prior.Base
		}
		if prior.Exchange != "" {
			defaults.Exchange = prior.Exchange
		}
	}
	if defaults.Base == "" {
		defaults.Base = DefaultBase
	}
	if defaults.Exchange == "" {
		defaults.Exchange = DefaultExchange
	}

	e.runner.Println("Currently you have no investments setup")
	e.runner.Println("Let's change that and setup your portfolio!")
	e.runner.Println("")

	base, err := prompt.Ask(ctx, e.runner, baseQuestion(defaults.Base))
	if err != nil {
		return err
	}
	exchange, err := prompt.Ask(ctx, e.runner, exchangeQuestion(defaults.Exchange))
	if err != nil {
		return err
	}

	var holdings []portfolio.Holding
	for {
		more, err := prompt.Confirm(ctx, e.runner, "Do you want to add coin to your portfolio?", true)
		if err != nil {
			return err
		}
		if !more {
			break
		}
		h, err := e.askCoin(ctx)
		if err != nil {
			return err
		}
		holdings = append(holdings, h)
	}

	e.store.Merge(portfolio.Document{
		Settings: &portfolio.Settings{Base: base, Exchange: exchange, Color: defaults.Color},
		Holdings: holdings,
	})
	e.logger.Info("Portfolio set up", zap.String("base", base), zap.Int("holdings", len(holdings)))
	return nil
}

// Add asks for one coin and appends it to the holdings.
func (e *Editor) Add(ctx context.Context) error {
	h, err := e.askCoin(ctx)
	if err != nil {
		return err
	}
	e.store.Append(h)
	e.logger.Info("Holding added", zap.String("name", h.Name))
	return nil
}

// Remove lets the user pick holdings to remove.
func (e *Editor) Remove(ctx context.Context) error {
	holdings, err := e.store.Holdings()
	if err != nil {
		return err
	}

	labels := make([]string, len(holdings))
	for i, h := range holdings {
		labels[i] = h.Label()
	}

	picked, err := prompt.MultiSelect(ctx, e.runner, "Which holdings to remove?", labels)
	if err != nil {
		return err
	}

	selected := make([]portfolio.Holding, 0, len(picked))
	for _, i := range picked {
		selected = append(selected, holdings[i])
	}
	e.store.Remove(selected...)
	e.logger.Info("Holdings removed", zap.Int("count", len(selected)))
	return nil
}

// Clear deletes all holdings after confirmation.
func (e *Editor) Clear(ctx context.Context) error {
	ok, err := prompt.Confirm(ctx, e.runner, "Are you sure you want to remove all holdings?", false)
	if err != nil {
		return err
	}
	if ok {
		e.store.Delete(portfolio.SectionHoldings)
		e.logger.Info("Holdings cleared")
	}
	return nil
}

func (e *Editor) askCoin(ctx context.Context) (portfolio.Holding, error) {
	name, err := prompt.Ask(ctx, e.runner, coinQuestion)
	if err != nil {
		return portfolio.Holding{}, err
	}
	amount, err := prompt.Ask(ctx, e.runner, numberQuestion("amount", "What amount?", "Invalid amount provided"))
	if err != nil {
		return portfolio.Holding{}, err
	}
	price, err := prompt.Ask(ctx, e.runner, numberQuestion("price", "At what price per coin?", "Invalid price provided"))
	if err != nil {
		return portfolio.Holding{}, err
	}
	return portfolio.Holding{Name: name, Amount: amount, Price: price}, nil
}

var (
	currencyPattern = regexp.MustCompile(`^[A-Za-z]{3,}$`)
	coinPattern     = regexp.MustCompile(`^\w{2,}$`)
)

func baseQuestion(def string) prompt.Question[string] {
	return prompt.Question[string]{
		ID:       "base",
		Text:     "What base currency to convert holdings to?",
		Default:  def,
		Required: true,
		Validate: func(answer string) error {
			if !currencyPattern.MatchString(answer) {
				return prompt.Invalid("Currency code needs to be at least 3 letters")
			}
			return nil
		},
		Convert: prompt.Upper,
	}
}

func exchangeQuestion(def string) prompt.Question[string] {
	return prompt.Question[string]{
		ID:       "exchange",
		Text:     "What exchange would you like to use?",
		Default:  def,
		Required: true,
		Convert:  prompt.String,
	}
}

var coinQuestion = prompt.Question[string]{
	ID:       "name",
	Text:     "What coin do you own?",
	Required: true,
	Validate: func(answer string) error {
		if !coinPattern.MatchString(answer) {
			return prompt.Invalid("Coin symbol needs at least 2 letters or digits")
		}
		return nil
	},
	Convert: prompt.Upper,
}

func numberQuestion(id, text, invalid string) prompt.Question[float64] {
	return prompt.Question[float64]{
		ID:       id,
		Text:     text,
		Required: true,
		Convert: func(answer string) (float64, error) {
			v, err := strconv.ParseFloat(strings.TrimSpace(answer), 64)
			if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
				return 0, prompt.Invalid(invalid)
			}
			return v, nil
		},
	}
}
