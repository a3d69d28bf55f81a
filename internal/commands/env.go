// Package commands implements the coinfolio subcommands.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"coinfolio/internal/cryptocompare"
	"coinfolio/internal/presenter"
	"coinfolio/internal/prompt"
	"coinfolio/internal/scheduler"
	"coinfolio/internal/terminal"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

var (
	// ErrNoQuote is returned when the feed has no price for a requested pair.
	ErrNoQuote = errors.New("no quote available")
	// ErrNoCache is returned by -offline when no quote cache is configured.
	ErrNoCache = errors.New("offline mode needs a quote cache, set cache.dsn")
)

// QuoteCache stores the latest fetched prices, see database.QuoteCache.
type QuoteCache interface {
	Save(resp *cryptocompare.PriceResponse, exchange string, at time.Time) error
	Prices(symbols []string, base, exchange string) (*cryptocompare.PriceResponse, error)
}

// Env holds what every command needs to run.
type Env struct {
	Feed cryptocompare.Feed
	// Cache is optional.
	Cache QuoteCache
	In    io.Reader
	Out   io.Writer
	Err   io.Writer
	Now   func() time.Time
	// Interval is the watch interval in seconds used by a bare -watch.
	Interval float64
	Logger   *zap.Logger
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// schedule runs tick once, or repeatedly when w was given.
func (e *Env) schedule(ctx context.Context, w *watchFlag, tick scheduler.TickFunc) error {
	interval := e.Interval
	if w.seconds > 0 {
		interval = w.seconds
	}
	s := scheduler.New(terminal.New(e.Out), w.set, scheduler.Interval(interval), e.Logger)
	return s.Run(ctx, tick)
}

// fail reports err and maps it to an exit status.
func (e *Env) fail(err error) subcommands.ExitStatus {
	switch {
	case errors.Is(err, prompt.ErrInterrupted), errors.Is(err, context.Canceled):
		e.Logger.Debug("Interrupted", zap.Error(err))
	case errors.Is(err, errUsage):
		fmt.Fprintln(e.Err, err)
		return subcommands.ExitUsageError
	default:
		e.Logger.Debug("Command failed", zap.Error(err))
		fmt.Fprintln(e.Err, "Error:", err)
	}
	return subcommands.ExitFailure
}

var errUsage = errors.New("usage")

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{errUsage}, args...)...)
}

func painter(color bool) presenter.Painter {
	return presenter.Painter{Enabled: color}
}
