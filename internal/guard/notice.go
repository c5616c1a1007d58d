package guard

import "sync"

// NoticeBoard carries one-shot notices from a view to the route it
// redirected to
type NoticeBoard struct {
	mu      sync.Mutex
	notices map[string]string
}

// NewNoticeBoard creates an empty board
func NewNoticeBoard() *NoticeBoard {
	return &NoticeBoard{notices: make(map[string]string)}
}

// Post leaves notice for route, replacing an unread one
func (b *NoticeBoard) Post(route, notice string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices[route] = notice
}

// Take returns the notice for route and clears it
func (b *NoticeBoard) Take(route string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	notice, ok := b.notices[route]
	if ok {
		delete(b.notices, route)
	}
	return notice, ok
}

// Redirect implements Redirector by posting the notice
func (b *NoticeBoard) Redirect(route, notice string) {
	b.Post(route, notice)
}
