package guard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/logger"
	"registry-client/internal/models"
	"registry-client/internal/push"
)

// State is the lifecycle of a guarded single-entity view
type State int

const (
	StateLoading State = iota
	StateReady
	// StateNotFoundAfterSeen means the entity was shown and then deleted by
	// someone else
	StateNotFoundAfterSeen
	// StateNotFoundCold means the entity was never found
	StateNotFoundCold
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateNotFoundAfterSeen:
		return "not-found-after-seen"
	case StateNotFoundCold:
		return "not-found-cold"
	case StateError:
		return "error"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Terminal reports whether the view is gone for good
func (s State) Terminal() bool {
	return s == StateNotFoundAfterSeen
}

// DefaultInterval is the refresh interval of a ready view
const DefaultInterval = time.Second

// FetchFunc loads the guarded entity
type FetchFunc[T any] func(ctx context.Context) (*T, error)

// Redirector navigates away from a view that lost its entity
type Redirector interface {
	Redirect(route, notice string)
}

// Options configures a Guard
type Options struct {
	Entity    string
	ID        int64
	ListRoute string
	// Notice is shown on the list page after the redirect. Defaults to
	// "<Entity> <ID> was deleted by another user".
	Notice     string
	Redirector Redirector
	// OnChange is called after every state transition
	OnChange func(from, to State)
}

// Guard tracks a single-entity view and detects that its entity was deleted
// while being looked at
type Guard[T any] struct {
	fetch FetchFunc[T]
	opts  Options
	log   *logger.Logger

	mu         sync.Mutex
	state      State
	value      *T
	err        error
	seen       bool
	redirected bool
}

// New creates a guard around fetch
func New[T any](fetch FetchFunc[T], opts Options) *Guard[T] {
	if opts.Notice == "" {
		opts.Notice = (&apperrors.DeletedWhileViewingError{Entity: opts.Entity, ID: opts.ID}).Error()
	}
	return &Guard[T]{
		fetch: fetch,
		opts:  opts,
		log: logger.ForComponent("guard").WithFields(map[string]interface{}{
			"entity": opts.Entity,
			"id":     opts.ID,
		}),
	}
}

// State returns the current state
func (g *Guard[T]) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Value returns the last successfully fetched entity, if any
func (g *Guard[T]) Value() *T {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

// Err returns the error behind the current state
func (g *Guard[T]) Err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.err
}

// Observe fetches the entity once and applies the outcome. Once the entity
// was deleted after being seen, the guard stays in that state and stops
// fetching.
func (g *Guard[T]) Observe(ctx context.Context) State {
	if state := g.State(); state.Terminal() {
		return state
	}

	value, err := g.fetch(ctx)
	if err != nil && ctx.Err() != nil {
		// the view went away, nothing to apply
		return g.State()
	}
	return g.apply(value, err)
}

// ClassifySubmitError maps the failure of a submit from an edit form. A
// not-found after the entity was seen follows the same redirect path as a
// fetch would.
func (g *Guard[T]) ClassifySubmitError(err error) error {
	if err == nil {
		return nil
	}
	if !apperrors.IsNotFound(err) && !apperrors.IsDeletedWhileViewing(err) {
		return err
	}
	g.apply(nil, err)
	if g.State() == StateNotFoundAfterSeen {
		return g.Err()
	}
	return err
}

// Run observes the entity now and then every interval while it is ready,
// plus whenever invalidations fires. It returns when ctx is done or after the
// redirect of a deleted entity.
func (g *Guard[T]) Run(ctx context.Context, interval time.Duration, invalidations <-chan struct{}) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		state := g.Observe(ctx)
		if state.Terminal() {
			return g.Err()
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		var tick <-chan time.Time
		if state == StateReady {
			timer.Reset(interval)
			tick = timer.C
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tick:
		case <-invalidations:
		}
	}
}

func (g *Guard[T]) apply(value *T, err error) State {
	g.mu.Lock()
	from := g.state
	redirect := false

	switch {
	case err == nil && value != nil:
		g.state = StateReady
		g.value = value
		g.err = nil
		g.seen = true
	case err == nil:
		g.state = StateError
		g.err = errors.New("empty response")
	case (apperrors.IsNotFound(err) || apperrors.IsDeletedWhileViewing(err)) && g.seen:
		g.state = StateNotFoundAfterSeen
		g.err = &apperrors.DeletedWhileViewingError{Entity: g.opts.Entity, ID: g.opts.ID, Notice: g.opts.Notice}
		if !g.redirected {
			g.redirected = true
			redirect = true
		}
	case apperrors.IsNotFound(err):
		g.state = StateNotFoundCold
		g.err = err
	default:
		g.state = StateError
		g.err = err
	}
	to := g.state
	g.mu.Unlock()

	if from != to {
		g.log.WithFields(map[string]interface{}{
			"from": from.String(),
			"to":   to.String(),
		}).Debug("guard state changed")
		if g.opts.OnChange != nil {
			g.opts.OnChange(from, to)
		}
	}
	if redirect {
		g.log.WithField("route", g.opts.ListRoute).Info("entity deleted while viewing, redirecting")
		if g.opts.Redirector != nil {
			g.opts.Redirector.Redirect(g.opts.ListRoute, g.opts.Notice)
		}
	}
	return to
}

// Signal turns push events of a collection into a coalescing invalidation
// channel for Run
func Signal(hub *push.Hub, collection models.Collection) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)
	if hub == nil {
		return ch, func() {}
	}
	cancel := hub.Subscribe(func(push.Event) {
		select {
		case ch <- struct{}{}:
		default:
		}
	}, collection)
	return ch, cancel
}
