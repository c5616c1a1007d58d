package query

import (
	"fmt"
	"strings"
	"sync"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/gateway"
	"registry-client/internal/models"
)

// Key identifies one list query. It is comparable and used as a map key by
// the list engine.
type Key struct {
	Search      string
	SearchField string
	Page        int
	Sort        string
	Dir         models.SortDirection
}

func (k Key) String() string {
	return fmt.Sprintf("search=%q field=%s page=%d sort=%s,%s", k.Search, k.SearchField, k.Page, k.Sort, k.Dir)
}

// Store holds the search, sort and page state of one list view. It is safe
// for concurrent use.
type Store struct {
	mu        sync.Mutex
	view      View
	key       Key
	nextID    int
	listeners map[int]func(Key)
}

// NewStore creates a Store positioned on the first page of view
func NewStore(view View) *Store {
	if view.PageSize <= 0 {
		view.PageSize = DefaultPageSize
	}
	key := Key{Sort: view.DefaultSort, Dir: models.SortAsc}
	if len(view.SearchFields) > 0 {
		key.SearchField = view.SearchFields[0]
	}
	return &Store{
		view:      view,
		key:       key,
		listeners: map[int]func(Key){},
	}
}

// View returns the view the store serves
func (s *Store) View() View {
	return s.view
}

// Key returns the current query key
func (s *Store) Key() Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.key
}

// SetSearch changes the search text and field and returns to the first page.
// An empty field keeps the current one.
func (s *Store) SetSearch(text, field string) error {
	s.mu.Lock()
	next := s.key
	if field == "" {
		field = next.SearchField
	}
	if field != "" && !s.view.AllowsSearch(field) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownSearchField, field)
	}
	if field == "" && strings.TrimSpace(text) != "" {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s has no search fields", apperrors.ErrUnknownSearchField, s.view.Collection)
	}
	next.Search = text
	next.SearchField = field
	next.Page = 0
	s.apply(next)
	return nil
}

// SetSort sorts by field. Choosing the current field toggles the direction,
// a new field starts ascending. Returns to the first page.
func (s *Store) SetSort(field string) error {
	if !s.view.AllowsSort(field) {
		return fmt.Errorf("%w: %s", apperrors.ErrUnknownSortField, field)
	}

	s.mu.Lock()
	next := s.key
	if next.Sort == field {
		next.Dir = next.Dir.Toggle()
	} else {
		next.Sort = field
		next.Dir = models.SortAsc
	}
	next.Page = 0
	s.apply(next)
	return nil
}

// SetPage moves to the zero-based page n
func (s *Store) SetPage(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: %d", apperrors.ErrInvalidPage, n)
	}

	s.mu.Lock()
	next := s.key
	next.Page = n
	s.apply(next)
	return nil
}

// OnChange registers fn to run after every key change. fn runs on the
// mutating goroutine.
func (s *Store) OnChange(fn func(Key)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// ListQuery builds the Gateway query for the current key
func (s *Store) ListQuery() gateway.ListQuery {
	return s.view.ListQuery(s.Key())
}

// ListQuery builds the Gateway query for key
func (v View) ListQuery(key Key) gateway.ListQuery {
	q := gateway.ListQuery{
		Page: key.Page,
		Size: v.PageSize,
		Sort: key.Sort,
		Dir:  key.Dir,
	}
	if search := strings.TrimSpace(key.Search); search != "" {
		q.Search = search
		q.SearchField = key.SearchField
	}
	return q
}

// apply stores next and notifies listeners when it differs from the current
// key. The caller holds s.mu, apply releases it.
func (s *Store) apply(next Key) {
	if next == s.key {
		s.mu.Unlock()
		return
	}
	s.key = next
	listeners := make([]func(Key), 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}
