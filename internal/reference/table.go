package reference

import (
	"context"
	"fmt"
	"sync"

	"registry-client/internal/gateway"
	"registry-client/internal/logger"
	"registry-client/internal/models"
	"registry-client/internal/push"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Kind is one of the reference collections offered in "reuse existing"
// selectors
type Kind = models.Collection

const (
	KindCoordinates = models.CollectionCoordinates
	KindAddresses   = models.CollectionAddresses
	KindLocations   = models.CollectionLocations
)

// Kinds lists the reference collections in load order
var Kinds = []Kind{KindCoordinates, KindAddresses, KindLocations}

// DefaultPageSize is the page size used to walk a reference collection
const DefaultPageSize = 100

// Option is one selectable row of a reference collection
type Option struct {
	ID    int64  `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

type entry struct {
	options []Option
	byID    map[int64]Option
	loaded  bool
	stale   bool
	gen     uint64
}

// Table caches the reference collections. Rows are never mutated through
// the table; a push event on a collection marks it stale and the next
// ListAll reloads it.
type Table struct {
	gateway  gateway.GatewayInterface
	hub      *push.Hub
	pageSize int
	group    singleflight.Group
	log      *logger.Logger

	mu      sync.RWMutex
	entries map[Kind]*entry
}

// New creates a reference table reading through gw. hub may be nil, in which
// case the table is only refreshed by Invalidate.
func New(gw gateway.GatewayInterface, hub *push.Hub) *Table {
	t := &Table{
		gateway:  gw,
		hub:      hub,
		pageSize: DefaultPageSize,
		log:      logger.ForComponent("reference"),
		entries:  make(map[Kind]*entry, len(Kinds)),
	}
	for _, kind := range Kinds {
		t.entries[kind] = &entry{}
	}
	return t
}

// Load fetches all three reference collections concurrently. A kind that is
// already being reloaded joins that reload.
func (t *Table) Load(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range Kinds {
		kind := kind
		g.Go(func() error {
			e, err := t.entry(kind)
			if err != nil {
				return err
			}
			_, err = t.sharedReload(ctx, kind, e)
			return err
		})
	}
	return g.Wait()
}

// ListAll returns the options of kind, reloading them first when they were
// never loaded or have been invalidated since
func (t *Table) ListAll(ctx context.Context, kind Kind) ([]Option, error) {
	e, err := t.entry(kind)
	if err != nil {
		return nil, err
	}

	t.mu.RLock()
	fresh := e.loaded && !e.stale
	options := e.options
	t.mu.RUnlock()
	if fresh {
		return cloneOptions(options), nil
	}
	return t.sharedReload(ctx, kind, e)
}

// sharedReload reloads kind once for all concurrent callers. The reload
// outlives a caller that gives up so the others still get the result.
func (t *Table) sharedReload(ctx context.Context, kind Kind, e *entry) ([]Option, error) {
	loadCtx := context.WithoutCancel(ctx)
	ch := t.group.DoChan(string(kind), func() (interface{}, error) {
		if err := t.reload(loadCtx, kind); err != nil {
			return nil, err
		}
		t.mu.RLock()
		defer t.mu.RUnlock()
		return e.options, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneOptions(res.Val.([]Option)), nil
	}
}

// Lookup returns the cached option for id, stale or not
func (t *Table) Lookup(kind Kind, id int64) (Option, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[kind]
	if !ok {
		return Option{}, false
	}
	opt, ok := e.byID[id]
	return opt, ok
}

// Contains reports whether id is a row of kind. definitive is false when the
// table cannot tell, because kind was never loaded or changed since.
func (t *Table) Contains(kind Kind, id int64) (present, definitive bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, ok := t.entries[kind]
	if !ok || !e.loaded {
		return false, false
	}
	_, present = e.byID[id]
	return present, !e.stale
}

// Invalidate marks kinds stale. Unknown collections are ignored.
func (t *Table) Invalidate(kinds ...Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, kind := range kinds {
		if e, ok := t.entries[kind]; ok {
			e.stale = true
			e.gen++
		}
	}
}

// Watch invalidates a kind whenever its push topic fires, until ctx is done
func (t *Table) Watch(ctx context.Context) {
	if t.hub == nil {
		return
	}
	cancel := t.hub.Subscribe(func(ev push.Event) {
		t.log.WithField("collection", string(ev.Collection)).Debug("reference collection changed")
		t.Invalidate(ev.Collection)
	}, Kinds...)
	go func() {
		<-ctx.Done()
		cancel()
	}()
}

func (t *Table) entry(kind Kind) (*entry, error) {
	e, ok := t.entries[kind]
	if !ok {
		return nil, fmt.Errorf("%s is not a reference collection", kind)
	}
	return e, nil
}

func (t *Table) reload(ctx context.Context, kind Kind) error {
	e, err := t.entry(kind)
	if err != nil {
		return err
	}

	t.mu.RLock()
	gen := e.gen
	t.mu.RUnlock()

	options, err := t.fetch(ctx, kind)
	if err != nil {
		t.log.WithError(err).WithField("collection", string(kind)).Warn("failed to load reference collection")
		return err
	}

	byID := make(map[int64]Option, len(options))
	for _, opt := range options {
		byID[opt.ID] = opt
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	e.options = options
	e.byID = byID
	e.loaded = true
	// an invalidation that raced the fetch keeps the entry stale
	e.stale = e.gen != gen
	t.log.WithFields(map[string]interface{}{
		"collection": string(kind),
		"count":      len(options),
	}).Debug("reference collection loaded")
	return nil
}

func (t *Table) fetch(ctx context.Context, kind Kind) ([]Option, error) {
	switch kind {
	case KindCoordinates:
		return collect(ctx, t.gateway.Coordinates(), t.pageSize, models.Coordinates.GetID, models.Coordinates.Label)
	case KindAddresses:
		return collect(ctx, t.gateway.Addresses(), t.pageSize, models.Address.GetID, models.Address.Label)
	case KindLocations:
		return collect(ctx, t.gateway.Locations(), t.pageSize, models.Location.GetID, models.Location.Label)
	}
	return nil, fmt.Errorf("%s is not a reference collection", kind)
}

func collect[T any](ctx context.Context, lister gateway.ListerInterface[T], size int, id func(T) int64, label func(T) string) ([]Option, error) {
	rows, err := gateway.ListAll(ctx, lister, size)
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(rows))
	for _, row := range rows {
		options = append(options, Option{ID: id(row), Label: label(row)})
	}
	return options, nil
}

func cloneOptions(options []Option) []Option {
	out := make([]Option, len(options))
	copy(out, options)
	return out
}
