package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/being/internal/cli"
	"github.com/alexanderramin/being/internal/clock"
	"github.com/alexanderramin/being/internal/config"
	"github.com/alexanderramin/being/internal/db"
	"github.com/alexanderramin/being/internal/gateway"
	"github.com/alexanderramin/being/internal/repository"
	"github.com/alexanderramin/being/internal/service"
	"github.com/alexanderramin/being/internal/timer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Open the local database (credential and outbox)
	database, err := db.OpenDB(cfg.DBPath, db.ClientSchema)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Call logging goes to a file so it never garbles the TUI.
	var gatewayObs gateway.Observer = gateway.NoopObserver{}
	var useCaseObs service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogCalls {
		logFile, err := openLogFile(cfg.LogFile)
		if err != nil {
			return err
		}
		defer logFile.Close()
		gatewayObs = gateway.NewLogObserver(logFile)
		useCaseObs = service.NewLogUseCaseObserver(logFile)
	}

	clk := clock.System{}
	tokens := service.NewCredentialTokens(repository.NewSQLiteCredentialRepo(database), clk)
	api := gateway.NewHTTPClient(gateway.Config{
		BaseURL:    cfg.APIURL,
		TimeoutMs:  cfg.TimeoutMs,
		MaxRetries: cfg.MaxRetries,
	}, tokens, gatewayObs)

	app := &cli.App{
		Auth:          service.NewAuthService(api, tokens, useCaseObs),
		Practice:      service.NewPracticeService(api, repository.NewSQLitePendingSessionRepo(database), tokens, clk, useCaseObs),
		Stats:         service.NewStatsService(api, tokens, clk, useCaseObs),
		Config:        cfg,
		Clock:         clk,
		Chime:         timer.NewBellChime(os.Stdout),
		IsInteractive: isTerminal(os.Stdin) && isTerminal(os.Stdout),
	}

	// Ctrl+C in plain mode cancels the context; the timer stops and saves.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return cli.NewRootCmd(app).ExecuteContext(ctx)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func openLogFile(path string) (io.WriteCloser, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}
