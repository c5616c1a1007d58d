package push

import (
	"sync"
	"time"

	"registry-client/internal/logger"
	"registry-client/internal/models"
)

// Origin of a change notification
const (
	OriginLocal = "local"
	OriginStomp = "stomp"
	OriginNATS  = "nats"
)

// Event is a "something changed" notification for one collection. The body
// is kept for logging only and never interpreted.
type Event struct {
	Collection models.Collection
	Origin     string
	Body       []byte
	At         time.Time
}

type subscriber struct {
	collections map[models.Collection]struct{}
	fn          func(Event)
}

func (s subscriber) wants(c models.Collection) bool {
	if len(s.collections) == 0 {
		return true
	}
	_, ok := s.collections[c]
	return ok
}

// Hub fans change notifications out to in-process subscribers. Local
// mutations and remote push sources both publish into it.
type Hub struct {
	mu   sync.RWMutex
	next int
	subs map[int]subscriber
	log  *logger.Logger
}

// NewHub creates an empty Hub
func NewHub() *Hub {
	return &Hub{
		subs: map[int]subscriber{},
		log:  logger.ForComponent("push"),
	}
}

// Subscribe registers fn for the given collections (all when none are
// given). fn runs on the publisher's goroutine and must not block.
func (h *Hub) Subscribe(fn func(Event), collections ...models.Collection) (cancel func()) {
	sub := subscriber{fn: fn}
	if len(collections) > 0 {
		sub.collections = make(map[models.Collection]struct{}, len(collections))
		for _, c := range collections {
			sub.collections[c] = struct{}{}
		}
	}

	h.mu.Lock()
	id := h.next
	h.next++
	h.subs[id] = sub
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, id)
			h.mu.Unlock()
		})
	}
}

// Publish delivers ev to every interested subscriber
func (h *Hub) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	h.mu.RLock()
	targets := make([]func(Event), 0, len(h.subs))
	for _, sub := range h.subs {
		if sub.wants(ev.Collection) {
			targets = append(targets, sub.fn)
		}
	}
	h.mu.RUnlock()

	h.log.WithFields(map[string]interface{}{
		"collection":  ev.Collection,
		"origin":      ev.Origin,
		"subscribers": len(targets),
	}).Debug("change notification")

	for _, fn := range targets {
		fn(ev)
	}
}

// Invalidate publishes a local change notification for each collection
func (h *Hub) Invalidate(collections ...models.Collection) {
	for _, c := range collections {
		h.Publish(Event{Collection: c, Origin: OriginLocal})
	}
}
