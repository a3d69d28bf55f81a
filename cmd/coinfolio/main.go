package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"coinfolio/internal/commands"
	"coinfolio/internal/config"
	"coinfolio/internal/cryptocompare"
	"coinfolio/internal/database"
	"coinfolio/internal/logger"
	"coinfolio/internal/portfolio"
	"github.com/common-nighthawk/go-figure"
	"github.com/google/subcommands"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const portfolioName = "coinfolio"

func main() {
	os.Exit(run())
}

func run() int {
	// Load application configuration
	cfg, err := config.LoadConfig(config.DefaultPaths()...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	// Interrupts cancel the context; commands restore the terminal on the way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env := &commands.Env{
		Feed:     cryptocompare.NewClient(&cfg.Feed, log),
		In:       os.Stdin,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Interval: cfg.Watch.Interval,
		Logger:   log,
	}

	// The quote cache is optional.
	if cfg.Cache.DSN != "" {
		db, err := database.NewDatabase(cfg.Cache.DSN)
		if err != nil {
			log.Warn("Quote cache disabled", zap.Error(err))
		} else {
			env.Cache = database.NewQuoteCache(db, log)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	store := portfolio.NewStore(portfolioName, portfolio.DefaultSearchPaths(), home, log)

	commander := subcommands.NewCommander(flag.CommandLine, "coinfolio")
	explain := commander.Explain
	commander.Explain = func(w io.Writer) {
		fmt.Fprintln(w, banner())
		if explain != nil {
			explain(w)
		}
	}
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")
	commander.Register(commands.NewHoldings(env, store), "")
	commander.Register(commands.NewCoins(env), "")
	commander.Register(commands.NewMarkets(env), "")
	commander.Register(commands.NewVersion(os.Stdout, version), "")

	flag.Parse()
	log.Debug("Configuration loaded", zap.String("feed", cfg.Feed.BaseURL), zap.Bool("cache", env.Cache != nil))

	return int(commander.Execute(ctx))
}

func banner() string {
	fig := figure.NewFigure("coinfolio", "standard", true)
	return strings.Join(fig.Slicify(), "\n")
}
