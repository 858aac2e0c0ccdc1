package service

import (
	"context"
	"sync"

	"github.com/OwesNiyazi/propertyFront/internal/listing/domain"
)

// MutationState is where one record's pending change stands
type MutationState int

const (
	StateIdle MutationState = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s MutationState) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// MutationKind names the change being made
type MutationKind string

const (
	KindCreate MutationKind = "create"
	KindEdit   MutationKind = "edit"
	KindRemove MutationKind = "remove"
)

// Event reports one transition of a mutation
type Event struct {
	Kind     MutationKind
	RecordID string // empty for a create that has not succeeded yet
	State    MutationState
	Err      error
}

// Notifier receives mutation transitions, e.g. to show a toast
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(ctx context.Context, e Event)

func (f NotifierFunc) Notify(ctx context.Context, e Event) { f(ctx, e) }

type noopNotifier struct{}

func (noopNotifier) Notify(context.Context, Event) {}

// createSlot keys the in-flight create; record ids are never empty.
const createSlot = ""

// guard is the per-record disable-while-pending flag. A key absent from
// the map is Idle.
type guard struct {
	mu      sync.Mutex
	pending map[string]MutationState
}

func newGuard() *guard {
	return &guard{pending: make(map[string]MutationState)}
}

// acquire moves key from Idle to Submitting, or fails without side effects
func (g *guard) acquire(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending[key] == StateSubmitting {
		return domain.ErrMutationInFlight
	}
	g.pending[key] = StateSubmitting
	return nil
}

// settle records the outcome and returns the key to Idle
func (g *guard) settle(key string, err error) MutationState {
	outcome := StateSucceeded
	if err != nil {
		outcome = StateFailed
	}
	g.mu.Lock()
	delete(g.pending, key)
	g.mu.Unlock()
	return outcome
}

func (g *guard) state(key string) MutationState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.pending[key]
}
