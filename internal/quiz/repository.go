package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyPool       = errors.New("no published quiz items")
	ErrMalformedItem   = errors.New("malformed quiz item")
	ErrItemNotFound    = errors.New("quiz item not found")
	ErrPrecondition    = errors.New("operation not allowed in current state")
	ErrFetchInFlight   = errors.New("fetch already in progress")
	ErrSessionFinished = errors.New("session finished")
	ErrSessionClosed   = errors.New("session closed")
	ErrWakeFailed      = errors.New("wake request failed")
)

// MaxIncorrectAnswers is the number of incorrect answer slots an item carries.
const MaxIncorrectAnswers = 3

// Item is one question from the item bank.
type Item struct {
	ID               string
	Question         string
	CorrectAnswer    string
	IncorrectAnswers [MaxIncorrectAnswers]string
	Explanation      string
	Published        bool
	CreatedAt        time.Time
}

// Validate reports ErrMalformedItem when the item cannot be served.
func (i Item) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return fmt.Errorf("%w: id is required", ErrMalformedItem)
	}
	if strings.TrimSpace(i.CorrectAnswer) == "" {
		return fmt.Errorf("%w: correct answer is required", ErrMalformedItem)
	}
	return nil
}

// Repository is the read side of the item bank the controller depends on.
// ListPublished must fail rather than return an empty success on a fetch error.
type Repository interface {
	ListPublished(ctx context.Context) ([]Item, error)
}

// Waker sends the one-shot restore request to a dormant backend.
type Waker interface {
	Wake(ctx context.Context) error
}

// ResultSink receives the final stats of a finished session.
type ResultSink interface {
	RecordResult(ctx context.Context, sessionID string, stats Stats) error
}

// RepositoryFunc adapts a plain function to Repository.
type RepositoryFunc func(ctx context.Context) ([]Item, error)

func (f RepositoryFunc) ListPublished(ctx context.Context) ([]Item, error) {
	return f(ctx)
}

// WakerFunc adapts a plain function to Waker.
type WakerFunc func(ctx context.Context) error

func (f WakerFunc) Wake(ctx context.Context) error {
	return f(ctx)
}
