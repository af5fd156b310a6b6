package quiz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Controller owns one play-through: the played set, the score and the
// current State. Every mutation goes through its methods; callers only
// ever see State copies.
//
// Only one FetchNext may be outstanding at a time. A second call while one
// is in flight is rejected with ErrFetchInFlight.
type Controller struct {
	repo   Repository
	waker  Waker
	rng    *rand.Rand
	logger *log.Logger

	mu       sync.Mutex
	state    State
	stats    Stats
	played   map[string]struct{}
	fetching bool
	closed   bool
}

type Option func(*Controller)

// WithRand sets the randomness source used for picking and shuffling.
func WithRand(rng *rand.Rand) Option {
	return func(c *Controller) {
		c.rng = rng
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

func NewController(repo Repository, waker Waker, opts ...Option) *Controller {
	c := &Controller{
		repo:   repo,
		waker:  waker,
		played: make(map[string]struct{}),
		state:  State{Phase: PhaseLoading, Selected: NoSelection},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.rng == nil {
		c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	return c
}

// State returns a snapshot of the current session state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Played returns how many distinct items this session has presented.
func (c *Controller) Played() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.played)
}

// FetchNext loads the published pool and moves to the next unplayed item.
// Repository failures never surface as errors; they become PhaseErrored.
// The returned error is reserved for calls the current state does not allow.
func (c *Controller) FetchNext(ctx context.Context) (State, error) {
	c.mu.Lock()
	if err := c.checkFetchAllowedLocked(); err != nil {
		snapshot := c.state.clone()
		c.mu.Unlock()
		return snapshot, err
	}
	c.fetching = true
	c.state = State{Phase: PhaseLoading, Selected: NoSelection, Stats: c.stats}
	c.mu.Unlock()

	items, fetchErr := c.repo.ListPublished(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetching = false

	// The session ended while the request was outstanding; drop the result.
	if c.closed {
		return c.state.clone(), ErrSessionClosed
	}
	if c.state.Phase == PhaseFinished {
		return c.state.clone(), ErrSessionFinished
	}

	if fetchErr == nil {
		items = c.usableItems(items)
		if len(items) == 0 {
			fetchErr = ErrEmptyPool
		}
	}

	if fetchErr != nil {
		if errors.Is(fetchErr, ErrEmptyPool) && len(c.played) > 0 {
			c.state = State{Phase: PhaseOutOfQuestions, Selected: NoSelection, Stats: c.stats}
			return c.state.clone(), nil
		}
		kind := Classify(fetchErr)
		c.logger.Printf("fetch published items failed (%s): %v", kind, fetchErr)
		c.state = State{Phase: PhaseErrored, Failure: kind, Selected: NoSelection, Stats: c.stats}
		return c.state.clone(), nil
	}

	available := lo.Filter(items, func(item Item, _ int) bool {
		_, seen := c.played[item.ID]
		return !seen
	})
	if len(available) == 0 {
		c.state = State{Phase: PhaseOutOfQuestions, Selected: NoSelection, Stats: c.stats}
		return c.state.clone(), nil
	}

	item := available[c.rng.Intn(len(available))]
	c.played[item.ID] = struct{}{}
	c.state = State{
		Phase:    PhaseQuestion,
		Item:     item,
		Choices:  ShuffleChoices(item, c.rng),
		Selected: NoSelection,
		Stats:    c.stats,
	}
	return c.state.clone(), nil
}

// Select records the player's pick. Re-selecting overwrites the previous pick.
func (c *Controller) Select(index int) (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return c.state.clone(), ErrSessionClosed
	case c.state.Phase != PhaseQuestion:
		return c.state.clone(), fmt.Errorf("%w: select in phase %s", ErrPrecondition, c.state.Phase)
	case c.state.Answered:
		return c.state.clone(), fmt.Errorf("%w: question already answered", ErrPrecondition)
	case index < 0 || index >= len(c.state.Choices):
		return c.state.clone(), fmt.Errorf("%w: choice %d out of range [0,%d)", ErrPrecondition, index, len(c.state.Choices))
	}

	c.state.Selected = index
	return c.state.clone(), nil
}

// Submit grades the selected choice. It is the only place Stats change.
func (c *Controller) Submit() (State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.closed:
		return c.state.clone(), ErrSessionClosed
	case c.state.Phase != PhaseQuestion:
		return c.state.clone(), fmt.Errorf("%w: submit in phase %s", ErrPrecondition, c.state.Phase)
	case c.state.Answered:
		return c.state.clone(), fmt.Errorf("%w: question already answered", ErrPrecondition)
	case c.state.Selected == NoSelection:
		return c.state.clone(), fmt.Errorf("%w: no choice selected", ErrPrecondition)
	}

	c.state.Answered = true
	c.stats.Total++
	if c.state.Choices[c.state.Selected].IsCorrect {
		c.stats.Correct++
	}
	c.state.Stats = c.stats
	return c.state.clone(), nil
}

// Finish ends the session and returns the final stats. It is valid from any
// state and calling it again returns the same stats.
func (c *Controller) Finish() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.Phase != PhaseFinished {
		c.state = State{Phase: PhaseFinished, Selected: NoSelection, Stats: c.stats}
	}
	return c.stats
}

// TriggerWake asks the waker to restore a paused backend. On success the
// session stays errored with Waking set, so the caller can offer a manual
// re-check via FetchNext. A send failure leaves the state untouched.
func (c *Controller) TriggerWake(ctx context.Context) (State, error) {
	c.mu.Lock()
	switch {
	case c.closed:
		snapshot := c.state.clone()
		c.mu.Unlock()
		return snapshot, ErrSessionClosed
	case c.state.Phase != PhaseErrored || c.state.Failure != FailurePaused:
		snapshot := c.state.clone()
		c.mu.Unlock()
		return snapshot, fmt.Errorf("%w: wake requires a paused backend", ErrPrecondition)
	case c.waker == nil:
		snapshot := c.state.clone()
		c.mu.Unlock()
		return snapshot, fmt.Errorf("%w: no waker configured", ErrWakeFailed)
	}
	c.mu.Unlock()

	wakeErr := c.waker.Wake(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if wakeErr != nil {
		c.logger.Printf("wake request failed: %v", wakeErr)
		return c.state.clone(), fmt.Errorf("%w: %w", ErrWakeFailed, wakeErr)
	}
	if !c.closed && c.state.Phase == PhaseErrored && c.state.Failure == FailurePaused {
		c.state.Waking = true
	}
	return c.state.clone(), nil
}

// Close tears the session down. Results of an outstanding fetch are discarded.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Controller) checkFetchAllowedLocked() error {
	switch {
	case c.closed:
		return ErrSessionClosed
	case c.fetching:
		return ErrFetchInFlight
	case c.state.Phase == PhaseFinished:
		return ErrSessionFinished
	case c.state.Phase == PhaseOutOfQuestions:
		return fmt.Errorf("%w: no questions left", ErrPrecondition)
	case c.state.Phase == PhaseQuestion && !c.state.Answered:
		return fmt.Errorf("%w: current question not answered", ErrPrecondition)
	}
	return nil
}

func (c *Controller) usableItems(items []Item) []Item {
	valid := lo.Filter(items, func(item Item, _ int) bool {
		if !item.Published {
			return false
		}
		if err := item.Validate(); err != nil {
			c.logger.Printf("skipping item %q: %v", item.ID, err)
			return false
		}
		return true
	})
	return lo.UniqBy(valid, func(item Item) string {
		return item.ID
	})
}
