package httpapi

import (
	"context"
	"errors"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"endless-quiz/internal/quiz"
)

const (
	defaultMaxSessions = 1000
	defaultSessionTTL  = 30 * time.Minute
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTooManySessions = errors.New("too many active sessions")
)

// ItemStore is the write side of the item bank. Only the sqlite backend has one.
type ItemStore interface {
	ListItems(ctx context.Context) ([]quiz.Item, error)
	GetItem(ctx context.Context, id string) (quiz.Item, error)
	CreateItem(ctx context.Context, item quiz.Item) (quiz.Item, error)
	UpdateItem(ctx context.Context, item quiz.Item) error
	DeleteItem(ctx context.Context, id string) error
}

type Deps struct {
	Repository quiz.Repository
	Waker      quiz.Waker
	Results    quiz.ResultSink
	Items      ItemStore
	Logger     *log.Logger

	// MaxSessions bounds concurrently open sessions; zero means the default.
	MaxSessions int
	// SessionTTL is how long a session may go untouched before it is
	// evicted; zero means the default.
	SessionTTL time.Duration
}

// API keeps one Controller per open session, keyed by a random id.
type API struct {
	repo        quiz.Repository
	waker       quiz.Waker
	results     quiz.ResultSink
	items       ItemStore
	logger      *log.Logger
	maxSessions int
	sessionTTL  time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*sessionEntry
}

type sessionEntry struct {
	controller *quiz.Controller
	lastSeen   time.Time
}

func NewAPI(deps Deps) *API {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	maxSessions := deps.MaxSessions
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	sessionTTL := deps.SessionTTL
	if sessionTTL <= 0 {
		sessionTTL = defaultSessionTTL
	}
	return &API{
		repo:        deps.Repository,
		waker:       deps.Waker,
		results:     deps.Results,
		items:       deps.Items,
		logger:      logger,
		maxSessions: maxSessions,
		sessionTTL:  sessionTTL,
		now:         time.Now,
		sessions:    make(map[string]*sessionEntry),
	}
}

func (a *API) openSession() (string, *quiz.Controller, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.now()
	a.evictIdleLocked(now)
	if len(a.sessions) >= a.maxSessions {
		return "", nil, ErrTooManySessions
	}

	id := uuid.NewString()
	controller := quiz.NewController(
		a.repo,
		a.waker,
		quiz.WithLogger(a.logger),
		quiz.WithRand(rand.New(rand.NewSource(time.Now().UnixNano()))),
	)
	a.sessions[id] = &sessionEntry{controller: controller, lastSeen: now}
	return id, controller, nil
}

// evictIdleLocked drops sessions untouched for longer than the TTL. Their
// controllers are closed, so a fetch still in flight is discarded.
func (a *API) evictIdleLocked(now time.Time) {
	for id, entry := range a.sessions {
		if now.Sub(entry.lastSeen) <= a.sessionTTL {
			continue
		}
		delete(a.sessions, id)
		entry.controller.Close()
		a.logger.Printf("evicted idle session %s", id)
	}
}

func (a *API) session(id string) (*quiz.Controller, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	entry.lastSeen = a.now()
	return entry.controller, nil
}

// closeSession removes the session and tears its controller down, so a fetch
// still in flight for it is discarded.
func (a *API) closeSession(id string) {
	a.mu.Lock()
	entry, ok := a.sessions[id]
	delete(a.sessions, id)
	a.mu.Unlock()

	if ok {
		entry.controller.Close()
	}
}

// Close tears down every open session.
func (a *API) Close() {
	a.mu.Lock()
	sessions := a.sessions
	a.sessions = make(map[string]*sessionEntry)
	a.mu.Unlock()

	for _, entry := range sessions {
		entry.controller.Close()
	}
}
