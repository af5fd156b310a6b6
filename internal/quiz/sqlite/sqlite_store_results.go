package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"endless-quiz/internal/quiz"
)

// FinishedSession is one stored session result.
type FinishedSession struct {
	SessionID  string
	Stats      quiz.Stats
	FinishedAt time.Time
}

// RecordResult stores the final stats of a session. Recording the same
// session twice keeps the first row.
func (s *SQLiteStore) RecordResult(ctx context.Context, sessionID string, stats quiz.Stats) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("session id is required")
	}
	if stats.Correct < 0 || stats.Total < stats.Correct {
		return errors.New("invalid session stats")
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT OR IGNORE INTO results (session_id, correct, total, finished_at_unix) VALUES (?, ?, ?, ?)`,
		sessionID,
		stats.Correct,
		stats.Total,
		time.Now().UTC().UnixNano(),
	)
	return err
}

// ListResults returns the most recent results first. limit <= 0 means all.
func (s *SQLiteStore) ListResults(ctx context.Context, limit int) ([]FinishedSession, error) {
	query := `SELECT session_id, correct, total, finished_at_unix
		 FROM results
		 ORDER BY finished_at_unix DESC, session_id ASC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]FinishedSession, 0)
	for rows.Next() {
		var (
			entry          FinishedSession
			finishedAtUnix int64
		)
		if err := rows.Scan(&entry.SessionID, &entry.Stats.Correct, &entry.Stats.Total, &finishedAtUnix); err != nil {
			return nil, err
		}
		entry.FinishedAt = time.Unix(0, finishedAtUnix).UTC()
		results = append(results, entry)
	}

	return results, rows.Err()
}
