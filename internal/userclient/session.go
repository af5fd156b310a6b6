package userclient

import (
	"context"
	"fmt"
	"sync"
	"time"

	"endless-quiz/internal/quiz"
)

const closeTimeout = 5 * time.Second

// RemoteSession plays a session held by a quiz service. It keeps the last
// snapshot the service returned, so State and Played never touch the network.
type RemoteSession struct {
	client *HTTPClient

	mu     sync.Mutex
	id     string
	state  quiz.State
	played int
}

func NewRemoteSession(client *HTTPClient) *RemoteSession {
	return &RemoteSession{
		client: client,
		state:  quiz.State{Phase: quiz.PhaseLoading, Selected: quiz.NoSelection},
	}
}

// ID returns the service-side session id, empty until the first fetch.
func (s *RemoteSession) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

func (s *RemoteSession) State() quiz.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *RemoteSession) Played() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.played
}

// FetchNext opens the session on first use and asks for the next question after that.
func (s *RemoteSession) FetchNext(ctx context.Context) (quiz.State, error) {
	id := s.ID()
	if id == "" {
		return s.apply(s.client.CreateSession(ctx))
	}
	return s.apply(s.client.Next(ctx, id))
}

func (s *RemoteSession) Select(ctx context.Context, index int) (quiz.State, error) {
	id, err := s.requireID()
	if err != nil {
		return s.State(), err
	}
	return s.apply(s.client.Select(ctx, id, index))
}

func (s *RemoteSession) Submit(ctx context.Context) (quiz.State, error) {
	id, err := s.requireID()
	if err != nil {
		return s.State(), err
	}
	return s.apply(s.client.Submit(ctx, id))
}

func (s *RemoteSession) TriggerWake(ctx context.Context) (quiz.State, error) {
	id, err := s.requireID()
	if err != nil {
		return s.State(), err
	}
	return s.apply(s.client.Wake(ctx, id))
}

// Finish ends the session on the service, which records and grades it. A
// session that never opened is graded locally as empty.
func (s *RemoteSession) Finish(ctx context.Context) (quiz.Result, error) {
	id := s.ID()
	if id == "" {
		return quiz.Grade(quiz.Stats{}), nil
	}

	result, err := s.client.Finish(ctx, id)
	if err != nil {
		return quiz.Result{}, err
	}

	s.mu.Lock()
	s.state = quiz.State{
		Phase:    quiz.PhaseFinished,
		Selected: quiz.NoSelection,
		Stats:    quiz.Stats{Correct: result.Correct, Total: result.Total},
	}
	s.mu.Unlock()
	return result, nil
}

// Close releases a session that was never finished so it stops holding a
// slot on the service. Errors are ignored; the service evicts idle sessions.
func (s *RemoteSession) Close() {
	s.mu.Lock()
	id := s.id
	finished := s.state.Phase == quiz.PhaseFinished
	s.id = ""
	s.mu.Unlock()

	if id == "" || finished {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()
	_ = s.client.CloseSession(ctx, id)
}

func (s *RemoteSession) requireID() (string, error) {
	id := s.ID()
	if id == "" {
		return "", fmt.Errorf("%w: session not started", quiz.ErrPrecondition)
	}
	return id, nil
}

func (s *RemoteSession) apply(payload sessionPayload, err error) (quiz.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		return s.state, err
	}
	if payload.SessionID != "" {
		s.id = payload.SessionID
	}
	s.state = payload.toState()
	s.played = payload.Played
	return s.state, nil
}
