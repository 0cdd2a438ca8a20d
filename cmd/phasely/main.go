package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/DaWei8/phasely/internal/cli"
	"github.com/DaWei8/phasely/internal/db"
	"github.com/DaWei8/phasely/internal/generation"
	"github.com/DaWei8/phasely/internal/llm"
	"github.com/DaWei8/phasely/internal/planserver"
	"github.com/DaWei8/phasely/internal/repository"
	"github.com/DaWei8/phasely/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.phasely/phasely.db
	dbPath := os.Getenv("PHASELY_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".phasely", "phasely.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	genCfg := generation.LoadConfig()

	logger := slog.New(slog.DiscardHandler)
	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if genCfg.LogCalls {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
		observer = service.NewLogUseCaseObserver(logger)
	}

	generator := generation.NewGenerator(
		generation.NewHTTPClient(genCfg.Endpoint, nil),
		append(generation.FromConfig(genCfg), generation.WithLogger(logger))...,
	)

	app := &cli.App{
		Plans: service.NewPlanService(
			generator,
			repository.NewSQLitePlanRepo(database),
			db.NewSQLiteUnitOfWork(database),
			observer,
		),
		Serve: serve,
	}

	app.IsInteractive = func() bool {
		return (isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())) &&
			(isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()))
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(context.Background())
}

// serve runs the generation endpoint against the configured LLM provider.
func serve(ctx context.Context, addr string) error {
	llmCfg := llm.LoadConfig()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewLogObserver(logger)
	}

	srv, err := planserver.New(llm.NewClient(llmCfg, observer), llmCfg.Provider, logger)
	if err != nil {
		return err
	}
	return srv.ListenAndServe(ctx, addr)
}
