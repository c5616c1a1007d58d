package listsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/gateway"
	"registry-client/internal/logger"
	"registry-client/internal/models"
	"registry-client/internal/push"
	"registry-client/internal/query"
)

// Status of the list for the current key
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Snapshot is an immutable view of the list. Items may belong to a previous
// key while the current key loads (Previous is then true). Items must not be
// modified by the receiver.
type Snapshot[T any] struct {
	Key           query.Key
	DataKey       query.Key
	Items         []T
	TotalPages    int
	TotalElements int64
	Status        Status
	Previous      bool
	Fetching      bool
	Err           error
	UpdatedAt     time.Time
}

// HasData reports whether the snapshot carries a result set
func (s Snapshot[T]) HasData() bool {
	return !s.UpdatedAt.IsZero()
}

// Deleter removes entities of a collection
type Deleter interface {
	Delete(ctx context.Context, id int64, opts gateway.DeleteOptions) error
}

// ConfirmFunc asks the user whether a blocked delete should cascade
type ConfirmFunc func(ctx context.Context, conflict *apperrors.ConflictRequiresCascadeError) (bool, error)

// RemoveOptions controls Remove
type RemoveOptions struct {
	// Cascade requests cascading on the first attempt
	Cascade bool
	// Confirm is consulted when the Gateway reports that cascading is required
	Confirm ConfirmFunc
}

// Option configures an Engine
type Option[T any] func(*Engine[T])

// WithPollPolicy replaces the default fixed one second poll
func WithPollPolicy[T any](p PollPolicy[T]) Option[T] {
	return func(e *Engine[T]) { e.policy = p }
}

// messages handled by the event loop
type (
	keyChanged         struct{}
	invalidated        struct{}
	refreshReq         struct{}
	pollTick           struct{ gen uint64 }
	fetchResult[T any] struct {
		epoch uint64
		key   query.Key
		page  *models.Page[T]
		err   error
	}
)

// Engine keeps one paginated list view in sync with the Gateway. A single
// goroutine owns the view state; fetches, the poll timer, push notifications
// and store changes all post messages to it.
type Engine[T any] struct {
	source  gateway.ListerInterface[T]
	deleter Deleter
	store   *query.Store
	hub     *push.Hub
	policy  PollPolicy[T]
	log     *logger.Logger

	events  chan interface{}
	updates chan Snapshot[T]
	done    chan struct{}

	ctx    context.Context
	cancel context.CancelFunc

	lifecycle sync.Mutex
	started   bool
	closed    bool

	mu       sync.Mutex
	snapshot Snapshot[T]
	changed  chan struct{}

	// onDiscard runs on the loop goroutine for every dropped response
	onDiscard func(query.Key)
}

// New creates an Engine for source driven by store. Deletion is available
// when source also implements Deleter. hub may be nil when no push channel
// or cross-view invalidation is wanted.
func New[T any](source gateway.ListerInterface[T], store *query.Store, hub *push.Hub, opts ...Option[T]) *Engine[T] {
	e := &Engine[T]{
		source:  source,
		store:   store,
		hub:     hub,
		policy:  FixedInterval[T](DefaultPollInterval),
		log:     logger.ForComponent("listsync").WithField("collection", string(source.Collection())),
		events:  make(chan interface{}, 64),
		updates: make(chan Snapshot[T], 1),
		done:    make(chan struct{}),
		changed: make(chan struct{}),
	}
	if d, ok := source.(Deleter); ok {
		e.deleter = d
	}
	for _, opt := range opts {
		opt(e)
	}
	e.snapshot = Snapshot[T]{Key: store.Key(), Status: StatusIdle}
	return e
}

// Start begins fetching the current key and following changes until ctx is
// cancelled or Close is called
func (e *Engine[T]) Start(ctx context.Context) error {
	e.lifecycle.Lock()
	defer e.lifecycle.Unlock()
	if e.closed {
		return apperrors.ErrEngineClosed
	}
	if e.started {
		return nil
	}
	e.started = true
	e.ctx, e.cancel = context.WithCancel(ctx)

	var unsubscribe func()
	if e.hub != nil {
		unsubscribe = e.hub.Subscribe(func(push.Event) { e.post(invalidated{}) }, e.source.Collection())
	}
	stopWatching := e.store.OnChange(func(query.Key) { e.post(keyChanged{}) })

	go func() {
		defer func() {
			stopWatching()
			if unsubscribe != nil {
				unsubscribe()
			}
		}()
		e.run()
	}()
	return nil
}

// Close stops polling and push handling and waits for the event loop to
// exit. Responses still in flight are dropped when they arrive.
func (e *Engine[T]) Close() {
	e.lifecycle.Lock()
	if e.closed {
		e.lifecycle.Unlock()
		return
	}
	e.closed = true
	started := e.started
	e.lifecycle.Unlock()

	if !started {
		close(e.updates)
		return
	}
	e.cancel()
	<-e.done
}

// Snapshot returns the latest state of the list
func (e *Engine[T]) Snapshot() Snapshot[T] {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshot
}

// Updates delivers snapshots as they change. Slow readers only see the
// latest one. The channel is closed by Close.
func (e *Engine[T]) Updates() <-chan Snapshot[T] {
	return e.updates
}

// WaitFor blocks until a snapshot satisfies pred or ctx ends
func (e *Engine[T]) WaitFor(ctx context.Context, pred func(Snapshot[T]) bool) (Snapshot[T], error) {
	for {
		e.mu.Lock()
		snap, changed := e.snapshot, e.changed
		e.mu.Unlock()

		if pred(snap) {
			return snap, nil
		}
		select {
		case <-changed:
		case <-e.done:
			return e.Snapshot(), apperrors.ErrEngineClosed
		case <-ctx.Done():
			return snap, ctx.Err()
		}
	}
}

// Refresh fetches the current key again
func (e *Engine[T]) Refresh() error {
	return e.request(refreshReq{})
}

// Retry re-issues the fetch for the current key after an error. Polling
// resumes once it succeeds.
func (e *Engine[T]) Retry() error {
	return e.request(refreshReq{})
}

func (e *Engine[T]) request(msg interface{}) error {
	e.lifecycle.Lock()
	active := e.started && !e.closed
	e.lifecycle.Unlock()
	if !active {
		return apperrors.ErrEngineClosed
	}
	e.post(msg)
	return nil
}

// Remove deletes id. When the Gateway reports that the entity is still
// referenced, opts.Confirm decides whether the delete is re-issued with
// cascading. On success every view of the collection is invalidated.
func (e *Engine[T]) Remove(ctx context.Context, id int64, opts RemoveOptions) error {
	if e.deleter == nil {
		return fmt.Errorf("%s cannot be deleted", e.source.Collection())
	}
	log := logger.WithContext(ctx).WithFields(map[string]interface{}{
		"component":  "listsync",
		"collection": string(e.source.Collection()),
		"id":         id,
	})

	cascaded := opts.Cascade
	err := e.deleter.Delete(ctx, id, gateway.DeleteOptions{Cascade: opts.Cascade})

	var conflict *apperrors.ConflictRequiresCascadeError
	if !opts.Cascade && errors.As(err, &conflict) {
		if opts.Confirm == nil {
			return fmt.Errorf("%w: %w", apperrors.ErrConfirmationRequired, err)
		}
		confirmed, confirmErr := opts.Confirm(ctx, conflict)
		if confirmErr != nil {
			return fmt.Errorf("failed to confirm cascading deletion: %w", confirmErr)
		}
		if !confirmed {
			log.Info("cascading deletion declined")
			return fmt.Errorf("%w: %w", apperrors.ErrCascadeDeclined, err)
		}
		log.Info("retrying deletion with cascade")
		cascaded = true
		err = e.deleter.Delete(ctx, id, gateway.DeleteOptions{Cascade: true})
	}
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", e.source.Collection().Entity(), id, err)
	}

	log.WithField("cascade", cascaded).Info("entity deleted")
	e.invalidate(cascaded)
	return nil
}

// invalidate refreshes every view of the collection, and with cascade also
// the views of the collections the deletion reached into
func (e *Engine[T]) invalidate(cascade bool) {
	if e.hub == nil {
		_ = e.request(invalidated{})
		return
	}
	collections := []models.Collection{e.source.Collection()}
	if cascade {
		collections = append(collections, e.source.Collection().Dependents()...)
	}
	e.hub.Invalidate(collections...)
}

// post hands msg to the event loop unless the engine is shutting down
func (e *Engine[T]) post(msg interface{}) {
	select {
	case e.events <- msg:
	case <-e.ctx.Done():
	}
}

// loopState is owned by the event loop goroutine
type loopState[T any] struct {
	current  query.Key
	epoch    uint64
	inflight int
	memo     map[query.Key]*models.Page[T]

	shown     *models.Page[T]
	shownKey  query.Key
	shownAt   time.Time
	status    Status
	err       error
	pollTimer *time.Timer
	pollGen   uint64
}

func (e *Engine[T]) run() {
	defer close(e.done)
	defer close(e.updates)

	st := &loopState[T]{
		current: e.store.Key(),
		memo:    map[query.Key]*models.Page[T]{},
		status:  StatusLoading,
	}
	defer e.stopPoll(st)

	e.fetch(st)
	e.publish(st)

	for {
		select {
		case <-e.ctx.Done():
			return
		case msg := <-e.events:
			e.handle(st, msg)
			e.publish(st)
		}
	}
}

func (e *Engine[T]) handle(st *loopState[T], msg interface{}) {
	switch m := msg.(type) {
	case keyChanged:
		key := e.store.Key()
		if key == st.current {
			return
		}
		st.current = key
		st.epoch++
		st.inflight = 0
		e.stopPoll(st)
		if page, ok := st.memo[key]; ok {
			st.shown, st.shownKey = page, key
			st.status = StatusSuccess
		} else {
			st.status = StatusLoading
		}
		st.err = nil
		e.fetch(st)

	case invalidated:
		st.memo = map[query.Key]*models.Page[T]{}
		e.fetch(st)

	case refreshReq:
		e.fetch(st)

	case pollTick:
		if m.gen != st.pollGen {
			return
		}
		e.fetch(st)

	case fetchResult[T]:
		if m.epoch != st.epoch || m.key != st.current {
			e.log.WithField("key", m.key.String()).Debug("discarding response for superseded key")
			if e.onDiscard != nil {
				e.onDiscard(m.key)
			}
			return
		}
		st.inflight--
		if m.err != nil {
			st.status = StatusError
			st.err = m.err
			e.stopPoll(st)
			e.log.WithError(m.err).WithField("key", m.key.String()).Warn("list fetch failed, polling paused")
			return
		}
		st.memo[m.key] = m.page
		st.shown, st.shownKey, st.shownAt = m.page, m.key, time.Now()
		st.status = StatusSuccess
		st.err = nil
		e.schedulePoll(st, m.page.Content)
	}
}

func (e *Engine[T]) fetch(st *loopState[T]) {
	st.inflight++
	epoch, key := st.epoch, st.current
	q := e.store.View().ListQuery(key)

	// in-flight requests outlive Close and are discarded on arrival
	ctx := context.WithoutCancel(e.ctx)
	go func() {
		page, err := e.source.List(ctx, q)
		if err == nil && page == nil {
			err = errors.New("empty list response")
		}
		e.post(fetchResult[T]{epoch: epoch, key: key, page: page, err: err})
	}()
}

func (e *Engine[T]) schedulePoll(st *loopState[T], items []T) {
	e.stopPoll(st)
	delay, ok := e.policy.Next(items)
	if !ok {
		return
	}
	gen := st.pollGen
	st.pollTimer = time.AfterFunc(delay, func() { e.post(pollTick{gen: gen}) })
}

func (e *Engine[T]) stopPoll(st *loopState[T]) {
	st.pollGen++
	if st.pollTimer != nil {
		st.pollTimer.Stop()
		st.pollTimer = nil
	}
}

func (e *Engine[T]) publish(st *loopState[T]) {
	snap := Snapshot[T]{
		Key:      st.current,
		Status:   st.status,
		Fetching: st.inflight > 0,
		Err:      st.err,
	}
	if st.shown != nil {
		snap.DataKey = st.shownKey
		snap.Items = st.shown.Content
		snap.TotalPages = st.shown.TotalPages
		snap.TotalElements = st.shown.TotalElements
		snap.Previous = st.shownKey != st.current
		snap.UpdatedAt = st.shownAt
	}

	e.mu.Lock()
	e.snapshot = snap
	close(e.changed)
	e.changed = make(chan struct{})
	e.mu.Unlock()

	select {
	case e.updates <- snap:
	default:
		select {
		case <-e.updates:
		default:
		}
		e.updates <- snap
	}
}
