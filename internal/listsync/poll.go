package listsync

import (
	"time"

	"github.com/cenkalti/backoff"
)

// DefaultPollInterval is the refresh interval of live lists
const DefaultPollInterval = time.Second

// PollPolicy decides when the current page is fetched again after a
// successful fetch
type PollPolicy[T any] interface {
	// Next returns the delay before the next poll given the freshly fetched
	// items, or false to stop polling until the next success
	Next(items []T) (time.Duration, bool)
}

type fixedInterval[T any] struct {
	interval time.Duration
}

// FixedInterval polls every d as long as fetches succeed
func FixedInterval[T any](d time.Duration) PollPolicy[T] {
	if d <= 0 {
		d = DefaultPollInterval
	}
	return fixedInterval[T]{interval: d}
}

func (p fixedInterval[T]) Next([]T) (time.Duration, bool) {
	return p.interval, true
}

type whileActive[T any] struct {
	active  func(T) bool
	backoff backoff.BackOff
}

// WhileActive polls only while at least one item satisfies active, backing
// off between polls. The backoff restarts once nothing is active.
func WhileActive[T any](active func(T) bool, b backoff.BackOff) PollPolicy[T] {
	return &whileActive[T]{active: active, backoff: b}
}

func (p *whileActive[T]) Next(items []T) (time.Duration, bool) {
	for _, item := range items {
		if p.active(item) {
			d := p.backoff.NextBackOff()
			if d == backoff.Stop {
				return 0, false
			}
			return d, true
		}
	}
	p.backoff.Reset()
	return 0, false
}

// HistoryBackOff is the backoff used for history-style lists: it starts at
// initial, grows to maxInterval and never gives up
func HistoryBackOff(initial, maxInterval time.Duration) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = initial
	b.MaxInterval = maxInterval
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Never disables polling
func Never[T any]() PollPolicy[T] {
	return never[T]{}
}

type never[T any] struct{}

func (never[T]) Next([]T) (time.Duration, bool) { return 0, false }
