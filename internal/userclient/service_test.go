package userclient

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"endless-quiz/internal/httpapi"
	"endless-quiz/internal/quiz"
)

func singleChoiceItems() []quiz.Item {
	return []quiz.Item{
		{ID: "one", Question: "Is one a number?", CorrectAnswer: "Yes", Explanation: "It is.", Published: true},
		{ID: "two", Question: "Is two a number?", CorrectAnswer: "Yes", Published: true},
	}
}

func newQuizServer(t *testing.T, repo quiz.Repository, waker quiz.Waker) *httptest.Server {
	t.Helper()
	api := httpapi.NewAPI(httpapi.Deps{Repository: repo, Waker: waker})
	server := httptest.NewServer(httpapi.NewRouter(api))
	t.Cleanup(func() {
		server.Close()
		api.Close()
	})
	return server
}

func TestRemoteSessionPlaysAgainstService(t *testing.T) {
	server := newQuizServer(t, quiz.NewMemoryRepository(singleChoiceItems()...), nil)
	session := NewRemoteSession(NewHTTPClient(server.URL, server.Client()))
	ctx := context.Background()

	if _, err := session.Submit(ctx); !errors.Is(err, quiz.ErrPrecondition) {
		t.Fatalf("Submit before start err = %v, want ErrPrecondition", err)
	}

	for round := 1; round <= 2; round++ {
		state, err := session.FetchNext(ctx)
		if err != nil {
			t.Fatalf("FetchNext failed: %v", err)
		}
		if state.Phase != quiz.PhaseQuestion || len(state.Choices) != 1 || session.Played() != round {
			t.Fatalf("round %d: unexpected state %+v", round, state)
		}
		if quiz.CorrectIndex(state.Choices) != -1 {
			t.Fatalf("correct choice known before answering")
		}

		if _, err := session.Submit(ctx); !errors.Is(err, quiz.ErrPrecondition) {
			t.Fatalf("Submit without selection err = %v, want ErrPrecondition", err)
		}
		if _, err := session.Select(ctx, 0); err != nil {
			t.Fatalf("Select failed: %v", err)
		}
		state, err = session.Submit(ctx)
		if err != nil {
			t.Fatalf("Submit failed: %v", err)
		}
		if chosen, ok := state.SelectedChoice(); !ok || !chosen.IsCorrect {
			t.Fatalf("expected correct answer, got %+v", state)
		}
	}

	state, err := session.FetchNext(ctx)
	if err != nil || state.Phase != quiz.PhaseOutOfQuestions {
		t.Fatalf("expected out of questions, got %+v, %v", state, err)
	}

	id := session.ID()
	result, err := session.Finish(ctx)
	if err != nil {
		t.Fatalf("Finish failed: %v", err)
	}
	if result.Correct != 2 || result.Total != 2 || result.Tier != quiz.TierPerfect {
		t.Fatalf("unexpected result: %+v", result)
	}

	client := NewHTTPClient(server.URL, server.Client())
	if _, err := client.Next(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Next after finish err = %v, want ErrSessionNotFound", err)
	}
}

func TestRemoteSessionCloseReleasesUnfinishedSession(t *testing.T) {
	server := newQuizServer(t, quiz.NewMemoryRepository(singleChoiceItems()...), nil)
	client := NewHTTPClient(server.URL, server.Client())
	session := NewRemoteSession(client)
	ctx := context.Background()

	if _, err := session.FetchNext(ctx); err != nil {
		t.Fatalf("FetchNext failed: %v", err)
	}
	id := session.ID()
	if id == "" {
		t.Fatal("expected a session id after the first fetch")
	}

	session.Close()
	if _, err := client.Next(ctx, id); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("Next after Close err = %v, want ErrSessionNotFound", err)
	}
	if session.ID() != "" {
		t.Fatalf("session id still set after Close: %q", session.ID())
	}

	// A session that never opened has nothing to release.
	NewRemoteSession(client).Close()
}

func TestRemoteSessionWake(t *testing.T) {
	calls := 0
	repo := quiz.RepositoryFunc(func(context.Context) ([]quiz.Item, error) {
		calls++
		if calls == 1 {
			return nil, &quiz.FetchError{Op: "list", StatusCode: 540}
		}
		return singleChoiceItems(), nil
	})
	wakeErr := errors.New("forbidden")
	waker := quiz.WakerFunc(func(context.Context) error { return wakeErr })

	server := newQuizServer(t, repo, waker)
	session := NewRemoteSession(NewHTTPClient(server.URL, server.Client()))
	ctx := context.Background()

	state, err := session.FetchNext(ctx)
	if err != nil || !state.CanWake() {
		t.Fatalf("expected paused state, got %+v, %v", state, err)
	}
	if _, err := session.TriggerWake(ctx); !errors.Is(err, quiz.ErrWakeFailed) {
		t.Fatalf("TriggerWake err = %v, want ErrWakeFailed", err)
	}

	wakeErr = nil
	state, err = session.TriggerWake(ctx)
	if err != nil || !state.Waking {
		t.Fatalf("expected waking state, got %+v, %v", state, err)
	}

	state, err = session.FetchNext(ctx)
	if err != nil || state.Phase != quiz.PhaseQuestion {
		t.Fatalf("expected question after wake, got %+v, %v", state, err)
	}
}

func TestRunPlaysRemoteSession(t *testing.T) {
	server := newQuizServer(t, quiz.NewMemoryRepository(singleChoiceItems()[:1]...), nil)

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader("a\n\n\nfinish\n"), &out, Config{ServerURL: server.URL})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	output := out.String()
	if !strings.Contains(output, "Correct!") || !strings.Contains(output, "You've answered every question") {
		t.Fatalf("unexpected output:\n%s", output)
	}
	if !strings.Contains(output, "Final score: 1/1 (100%)") {
		t.Fatalf("expected final score:\n%s", output)
	}
}

func TestRunReportsUnavailableService(t *testing.T) {
	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()

	err := Run(context.Background(), strings.NewReader(""), &bytes.Buffer{}, Config{ServerURL: url})
	if err == nil || !strings.Contains(err.Error(), "quiz service unavailable at "+url) {
		t.Fatalf("Run err = %v, want unavailable error", err)
	}
}
