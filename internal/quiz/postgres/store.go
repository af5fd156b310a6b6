package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"endless-quiz/internal/quiz"
)

const opList = "list published quizzes"

// Store reads published items straight from the quizzes table.
type Store struct {
	db *sql.DB
}

// NewStore opens the pool without pinging. An unreachable database shows up
// on the first fetch.
func NewStore(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ListPublished(ctx context.Context) ([]quiz.Item, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id::text, question_text, choice_1,
			COALESCE(choice_2, ''), COALESCE(choice_3, ''), COALESCE(choice_4, ''),
			COALESCE(explanation, ''), is_published, created_at
		 FROM quizzes
		 WHERE is_published = true`,
	)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	items := make([]quiz.Item, 0)
	for rows.Next() {
		var (
			item      quiz.Item
			createdAt sql.NullTime
		)
		if err := rows.Scan(
			&item.ID,
			&item.Question,
			&item.CorrectAnswer,
			&item.IncorrectAnswers[0],
			&item.IncorrectAnswers[1],
			&item.IncorrectAnswers[2],
			&item.Explanation,
			&item.Published,
			&createdAt,
		); err != nil {
			return nil, translateError(err)
		}
		if createdAt.Valid {
			item.CreatedAt = createdAt.Time.UTC()
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// translateError turns driver errors into *quiz.FetchError so the SQLSTATE
// code is visible to quiz.Classify.
func translateError(err error) error {
	fetchErr := &quiz.FetchError{Op: opList, Err: err}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		fetchErr.Code = string(pqErr.Code)
		fetchErr.Message = pqErr.Message
		fetchErr.Err = nil
	}
	return fetchErr
}
