package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"

	"endless-quiz/internal/app"
	"endless-quiz/internal/cli"
	"endless-quiz/internal/config"
	"endless-quiz/internal/opentdb"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	backend := flag.String("backend", cfg.Backend, "item source: supabase, postgres, sqlite or memory")
	sqlitePath := flag.String("db", cfg.SQLitePath, "sqlite database path")
	seed := flag.Bool("seed", false, "load the built-in questions into an empty sqlite bank and exit")
	importCount := flag.Int("import", 0, "import this many OpenTriviaDB questions into the sqlite bank and exit")
	flag.Parse()

	cfg.Backend = *backend
	cfg.SQLitePath = *sqlitePath
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, *seed, *importCount); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, seed bool, importCount int) error {
	backend, err := app.Open(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	if seed {
		return backend.Seed(ctx)
	}
	if importCount > 0 {
		source := opentdb.NewClient(&http.Client{Timeout: cfg.HTTPTimeout})
		_, err := backend.Import(ctx, source, importCount)
		return err
	}

	return cli.Run(ctx, os.Stdin, os.Stdout, cli.Deps{
		Repository: backend.Repository,
		Waker:      backend.Waker,
		Results:    backend,
	})
}
