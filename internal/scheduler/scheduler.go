// Package scheduler runs render ticks once or periodically, redrawing each
// frame over the previous one.
package scheduler

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultInterval is used in watch mode when no positive interval is given.
const DefaultInterval = 5 * time.Second

// Screen is the terminal the scheduler draws on.
type Screen interface {
	io.Writer
	HideCursor()
	ShowCursor()
	// ClearLines moves the cursor up n lines and erases below it.
	ClearLines(n int)
	EraseBelow()
}

// TickFunc fetches and renders one frame. An empty frame with a nil error
// means no data was available; the tick is skipped. An error stops the
// scheduler.
type TickFunc func(ctx context.Context) (string, error)

// Scheduler drives a TickFunc.
type Scheduler struct {
	screen   Screen
	watch    bool
	interval time.Duration
	logger   *zap.Logger
}

// New creates a single-shot scheduler, or a watch-mode one when watch is set.
// A non-positive interval falls back to DefaultInterval.
func New(screen Screen, watch bool, interval time.Duration, logger *zap.Logger) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		screen:   screen,
		watch:    watch,
		interval: interval,
		logger:   logger.Named("scheduler"),
	}
}

// Interval converts a number of seconds, falling back to DefaultInterval for
// non-positive values.
func Interval(seconds float64) time.Duration {
	if seconds <= 0 {
		return DefaultInterval
	}
	return time.Duration(seconds * float64(time.Second))
}

// Run executes tick once, or in watch mode immediately and then every
// interval after the previous tick completed, until ctx is canceled or a
// tick fails. Cancellation is a normal exit and returns nil.
func (s *Scheduler) Run(ctx context.Context, tick TickFunc) error {
	if !s.watch {
		frame, err := tick(ctx)
		if err != nil {
			return err
		}
		if frame != "" {
			io.WriteString(s.screen, frame)
		}
		return nil
	}
	return s.loop(ctx, tick)
}

func (s *Scheduler) loop(ctx context.Context, tick TickFunc) error {
	s.screen.HideCursor()

	timer := time.NewTimer(0)
	defer func() {
		timer.Stop()
		s.screen.EraseBelow()
		s.screen.ShowCursor()
	}()

	s.logger.Debug("Starting watch loop", zap.Duration("interval", s.interval))

	printed := 0
	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("Watch loop canceled")
			return nil
		case <-timer.C:
		}
		if ctx.Err() != nil {
			return nil
		}

		frame, err := tick(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if frame == "" {
			s.logger.Debug("No data, skipping tick")
		} else {
			s.screen.ClearLines(printed)
			io.WriteString(s.screen, frame)
			printed = strings.Count(frame, "\n")
		}

		timer.Reset(s.interval)
	}
}
