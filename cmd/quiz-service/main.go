package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"endless-quiz/internal/app"
	"endless-quiz/internal/config"
	"endless-quiz/internal/httpapi"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	backend := flag.String("backend", cfg.Backend, "item source: supabase, postgres, sqlite or memory")
	seed := flag.Bool("seed", false, "load the built-in questions into an empty sqlite bank before serving")
	flag.Parse()

	cfg.Addr = *addr
	cfg.Backend = *backend
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *seed); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func run(ctx context.Context, cfg config.Config, seed bool) error {
	backend, err := app.Open(cfg)
	if err != nil {
		return err
	}
	defer backend.Close()

	if seed {
		if err := backend.Seed(ctx); err != nil {
			return err
		}
	}

	apiDeps := httpapi.Deps{
		Repository: backend.Repository,
		Waker:      backend.Waker,
		Results:    backend,
		Logger:     log.Default(),
		SessionTTL: cfg.SessionTTL,
	}
	if backend.Store != nil {
		apiDeps.Items = backend.Store
	}
	api := httpapi.NewAPI(apiDeps)
	defer api.Close()

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewRouter(api),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("quiz-service (%s backend) listening on %s", cfg.Backend, cfg.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}

		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
