package cli

import (
	"context"
	"log"

	"github.com/google/uuid"

	"endless-quiz/internal/quiz"
)

// Session is what the terminal loop plays against: a local Controller or a
// session held by a remote quiz service.
type Session interface {
	State() quiz.State
	Played() int
	FetchNext(ctx context.Context) (quiz.State, error)
	Select(ctx context.Context, index int) (quiz.State, error)
	Submit(ctx context.Context) (quiz.State, error)
	TriggerWake(ctx context.Context) (quiz.State, error)
	Finish(ctx context.Context) (quiz.Result, error)
	Close()
}

// LocalSession plays on an in-process Controller and hands the final stats
// to a ResultSink under a fresh session id.
type LocalSession struct {
	*quiz.Controller
	id      string
	results quiz.ResultSink
	logger  *log.Logger
}

// NewLocalSession wraps controller. A nil logger falls back to the standard one.
func NewLocalSession(controller *quiz.Controller, results quiz.ResultSink, logger *log.Logger) *LocalSession {
	if logger == nil {
		logger = log.Default()
	}
	return &LocalSession{
		Controller: controller,
		id:         uuid.NewString(),
		results:    results,
		logger:     logger,
	}
}

func (s *LocalSession) Select(_ context.Context, index int) (quiz.State, error) {
	return s.Controller.Select(index)
}

func (s *LocalSession) Submit(_ context.Context) (quiz.State, error) {
	return s.Controller.Submit()
}

// Finish records the result; a failed write is logged and does not block
// showing the grade.
func (s *LocalSession) Finish(ctx context.Context) (quiz.Result, error) {
	stats := s.Controller.Finish()
	if s.results != nil {
		if err := s.results.RecordResult(ctx, s.id, stats); err != nil {
			s.logger.Printf("record result for session %s failed: %v", s.id, err)
		}
	}
	return quiz.Grade(stats), nil
}
