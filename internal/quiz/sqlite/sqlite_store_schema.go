package sqlite

import (
	"context"
)

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quizzes (
			id TEXT PRIMARY KEY,
			question_text TEXT NOT NULL,
			choice_1 TEXT NOT NULL,
			-- Unused incorrect slots are stored as NULL, never as blank choices.
			choice_2 TEXT,
			choice_3 TEXT,
			choice_4 TEXT,
			explanation TEXT NOT NULL DEFAULT '',
			is_published INTEGER NOT NULL DEFAULT 0,
			created_at_unix INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS results (
			session_id TEXT PRIMARY KEY,
			correct INTEGER NOT NULL CHECK (correct >= 0),
			total INTEGER NOT NULL CHECK (total >= correct),
			finished_at_unix INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_published ON quizzes(is_published);`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_created_at ON quizzes(created_at_unix DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_results_finished_at ON results(finished_at_unix DESC);`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
