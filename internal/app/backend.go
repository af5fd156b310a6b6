package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"endless-quiz/internal/config"
	"endless-quiz/internal/opentdb"
	"endless-quiz/internal/quiz"
	"endless-quiz/internal/quiz/postgres"
	"endless-quiz/internal/quiz/sqlite"
	"endless-quiz/internal/supabase"
	"endless-quiz/internal/wake"
)

// Backend bundles what a session needs: where items come from, who wakes a
// paused project and where finished sessions are recorded.
type Backend struct {
	Repository quiz.Repository
	Waker      quiz.Waker
	Results    quiz.ResultSink

	// Store is set for the sqlite backend only.
	Store *sqlite.SQLiteStore

	closers []func() error
}

// Open builds the backend selected by cfg.Backend.
func Open(cfg config.Config) (*Backend, error) {
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	backend := &Backend{
		Waker: wake.NewClient(cfg.ManagementURL, cfg.SupabaseProjectRef, cfg.SupabaseAccessToken, httpClient),
	}

	switch cfg.Backend {
	case config.BackendSupabase:
		backend.Repository = supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, httpClient)
	case config.BackendPostgres:
		store, err := postgres.NewStore(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		backend.Repository = store
		backend.closers = append(backend.closers, store.Close)
	case config.BackendSQLite:
		store, err := sqlite.NewSQLiteStore(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		backend.Repository = store
		backend.Results = store
		backend.Store = store
		backend.closers = append(backend.closers, store.Close)
	case config.BackendMemory:
		backend.Repository = quiz.NewMemoryRepository(quiz.SeedItems()...)
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	return backend, nil
}

// Seed loads the built-in items into an empty sqlite bank.
func (b *Backend) Seed(ctx context.Context) error {
	if b.Store == nil {
		return errors.New("seeding requires the sqlite backend")
	}
	inserted, err := b.Store.SeedIfEmpty(ctx, quiz.SeedItems())
	if err != nil {
		return fmt.Errorf("seed items: %w", err)
	}
	log.Printf("seeded %d items", inserted)
	return nil
}

// TriviaSource supplies raw questions for Import.
type TriviaSource interface {
	FetchQuestions(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)
}

// Import pulls amount questions from source into the sqlite bank as
// published items. Questions that do not fit an item are skipped.
func (b *Backend) Import(ctx context.Context, source TriviaSource, amount int) (int, error) {
	if b.Store == nil {
		return 0, errors.New("importing requires the sqlite backend")
	}

	raw, err := source.FetchQuestions(ctx, amount)
	if err != nil {
		return 0, fmt.Errorf("fetch trivia: %w", err)
	}

	imported := 0
	for _, question := range raw {
		item, err := question.Item()
		if err != nil {
			log.Printf("skipping trivia question %q: %v", question.Question, err)
			continue
		}
		if _, err := b.Store.CreateItem(ctx, item); err != nil {
			return imported, fmt.Errorf("store imported item: %w", err)
		}
		imported++
	}
	log.Printf("imported %d of %d trivia questions", imported, len(raw))
	return imported, nil
}

// RecordResult hands finished stats to the result sink, when there is one.
func (b *Backend) RecordResult(ctx context.Context, sessionID string, stats quiz.Stats) error {
	if b.Results == nil {
		return nil
	}
	return b.Results.RecordResult(ctx, sessionID, stats)
}

func (b *Backend) Close() error {
	var errs []error
	for _, closeFn := range b.closers {
		if err := closeFn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
