package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"endless-quiz/internal/quiz"
)

const opListPublished = "list published quizzes"

const itemColumns = `id, question_text, choice_1, choice_2, choice_3, choice_4, explanation, is_published, created_at_unix`

type rowScanner interface {
	Scan(dest ...any) error
}

// ListPublished returns every published item. An empty bank is an empty
// success; the session decides what that means.
func (s *SQLiteStore) ListPublished(ctx context.Context) ([]quiz.Item, error) {
	items, err := s.queryItems(ctx, `SELECT `+itemColumns+` FROM quizzes WHERE is_published = 1`)
	if err != nil {
		return nil, translateError(err)
	}
	return items, nil
}

// ListItems returns all items, drafts included, newest first.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]quiz.Item, error) {
	return s.queryItems(ctx, `SELECT `+itemColumns+` FROM quizzes ORDER BY created_at_unix DESC, id ASC`)
}

func (s *SQLiteStore) GetItem(ctx context.Context, id string) (quiz.Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM quizzes WHERE id = ?`, id)
	item, err := scanItem(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Item{}, quiz.ErrItemNotFound
		}
		return quiz.Item{}, err
	}
	return item, nil
}

// CreateItem inserts a new item, assigning an id and creation time when absent.
func (s *SQLiteStore) CreateItem(ctx context.Context, item quiz.Item) (quiz.Item, error) {
	if strings.TrimSpace(item.ID) == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if err := item.Validate(); err != nil {
		return quiz.Item{}, err
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO quizzes (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		itemArgs(item)...,
	)
	if err != nil {
		return quiz.Item{}, err
	}
	return item, nil
}

func (s *SQLiteStore) UpdateItem(ctx context.Context, item quiz.Item) error {
	if err := item.Validate(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(
		ctx,
		`UPDATE quizzes SET
			question_text = ?, choice_1 = ?, choice_2 = ?, choice_3 = ?, choice_4 = ?,
			explanation = ?, is_published = ?
		 WHERE id = ?`,
		item.Question,
		item.CorrectAnswer,
		nullableText(item.IncorrectAnswers[0]),
		nullableText(item.IncorrectAnswers[1]),
		nullableText(item.IncorrectAnswers[2]),
		item.Explanation,
		boolToInt(item.Published),
		item.ID,
	)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

func (s *SQLiteStore) DeleteItem(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

// SeedIfEmpty inserts items in one transaction when the bank has no rows yet.
// It reports how many items were inserted.
func (s *SQLiteStore) SeedIfEmpty(ctx context.Context, items []quiz.Item) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var existing int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM quizzes`).Scan(&existing); err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	for idx, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			item.ID = uuid.NewString()
		}
		if item.CreatedAt.IsZero() {
			// Keep seed order stable under newest-first listing.
			item.CreatedAt = now.Add(-time.Duration(idx) * time.Second)
		}
		if err := item.Validate(); err != nil {
			return 0, err
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO quizzes (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			itemArgs(item)...,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(items), nil
}

func (s *SQLiteStore) queryItems(ctx context.Context, query string, args ...any) ([]quiz.Item, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]quiz.Item, 0)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(row rowScanner) (quiz.Item, error) {
	var (
		item          quiz.Item
		incorrect     [quiz.MaxIncorrectAnswers]sql.NullString
		published     int
		createdAtUnix int64
	)
	err := row.Scan(
		&item.ID,
		&item.Question,
		&item.CorrectAnswer,
		&incorrect[0],
		&incorrect[1],
		&incorrect[2],
		&item.Explanation,
		&published,
		&createdAtUnix,
	)
	if err != nil {
		return quiz.Item{}, err
	}

	for idx := range incorrect {
		item.IncorrectAnswers[idx] = incorrect[idx].String
	}
	item.Published = published != 0
	item.CreatedAt = time.Unix(0, createdAtUnix).UTC()
	return item, nil
}

func itemArgs(item quiz.Item) []any {
	return []any{
		item.ID,
		item.Question,
		item.CorrectAnswer,
		nullableText(item.IncorrectAnswers[0]),
		nullableText(item.IncorrectAnswers[1]),
		nullableText(item.IncorrectAnswers[2]),
		item.Explanation,
		boolToInt(item.Published),
		item.CreatedAt.UnixNano(),
	}
}

func nullableText(value string) sql.NullString {
	if strings.TrimSpace(value) == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

// translateError reports a failed read as *quiz.FetchError. A local file is
// never dormant, so every failure carries a code and classifies as Other.
func translateError(err error) error {
	fetchErr := &quiz.FetchError{Op: opListPublished, Code: "sqlite", Err: err}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		fetchErr.Code = fmt.Sprintf("sqlite:%d", int(sqliteErr.ExtendedCode))
		fetchErr.Message = sqliteErr.Error()
		fetchErr.Err = nil
	}
	return fetchErr
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return quiz.ErrItemNotFound
	}
	return nil
}
