package main

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/lox/rivers/internal/config"
	"github.com/lox/rivers/internal/feedback"
	"github.com/lox/rivers/internal/roster"
)

// Globals are the flags shared by every command.
type Globals struct {
	Players  string `short:"p" type:"existingfile" help:"CSV player sheet (Player No, Card 1, Card 2, Sentiment)"`
	Config   string `short:"c" type:"existingfile" help:"HCL query file with search settings and player blocks"`
	LogLevel string `short:"l" help:"Log level: debug, info, warn, error (overrides config)"`
	Debug    bool   `help:"Shorthand for --log-level=debug"`

	stdout io.Writer
}

func (g *Globals) out() io.Writer {
	if g.stdout == nil {
		return os.Stdout
	}
	return g.stdout
}

// query loads the search settings and players. The CSV sheet replaces any
// players defined in the HCL file.
func (g *Globals) query() (config.SearchSettings, []feedback.PlayerRecord, error) {
	settings := config.DefaultSearchSettings()
	var players []feedback.PlayerRecord

	if g.Config != "" {
		cfg, err := config.Load(g.Config)
		if err != nil {
			return settings, nil, err
		}
		settings = cfg.Search
		if players, err = cfg.Records(); err != nil {
			return settings, nil, err
		}
	}

	if g.Players != "" {
		var err error
		if players, err = roster.LoadFile(g.Players); err != nil {
			return settings, nil, err
		}
	}

	if g.Config == "" && g.Players == "" {
		return settings, nil, errors.New("no players given: use --players or --config")
	}
	return settings, players, nil
}

// logger builds a stderr logger. Flags win over the config file level.
func (g *Globals) logger(configLevel string) (*log.Logger, error) {
	levelText := configLevel
	if g.LogLevel != "" {
		levelText = g.LogLevel
	}
	if g.Debug {
		levelText = "debug"
	}
	if levelText == "" {
		levelText = "info"
	}

	level, err := log.ParseLevel(levelText)
	if err != nil {
		return nil, err
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	}), nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, stopping search", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
