package push

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"registry-client/internal/logger"
	"registry-client/internal/models"

	"github.com/cenkalti/backoff"
	"github.com/go-stomp/stomp/v3"
	"github.com/gorilla/websocket"
)

const defaultReconnectDelay = 5 * time.Second

var errSubscriptionClosed = errors.New("subscription closed")

// StompSource subscribes to the per-collection change topics of the
// Gateway's STOMP broker over a WebSocket and republishes them into a Hub.
// It reconnects with exponential backoff until its context is cancelled.
type StompSource struct {
	url            string
	header         http.Header
	hub            *Hub
	collections    []models.Collection
	reconnectDelay time.Duration
	dialer         *websocket.Dialer
	log            *logger.Logger
}

// StompOption configures a StompSource
type StompOption func(*StompSource)

// WithHeader sets the HTTP headers sent on the WebSocket upgrade
func WithHeader(header http.Header) StompOption {
	return func(s *StompSource) { s.header = header }
}

// WithReconnectDelay sets the first reconnect delay
func WithReconnectDelay(d time.Duration) StompOption {
	return func(s *StompSource) {
		if d > 0 {
			s.reconnectDelay = d
		}
	}
}

// WithCollections limits the subscribed topics
func WithCollections(collections ...models.Collection) StompOption {
	return func(s *StompSource) { s.collections = collections }
}

// NewStompSource creates a STOMP source for the broker at wsURL
func NewStompSource(wsURL string, hub *Hub, opts ...StompOption) *StompSource {
	s := &StompSource{
		url:            wsURL,
		hub:            hub,
		collections:    models.Collections,
		reconnectDelay: defaultReconnectDelay,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: 15 * time.Second,
		},
		log: logger.ForComponent("push.stomp"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *StompSource) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.reconnectDelay
	b.MaxInterval = 6 * s.reconnectDelay
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Run connects, subscribes and pumps messages until ctx is cancelled
func (s *StompSource) Run(ctx context.Context) error {
	b := s.newBackOff()
	for {
		err := s.session(ctx, b)
		if ctx.Err() != nil {
			return nil
		}

		wait := b.NextBackOff()
		s.log.WithError(err).WithField("retry_in", wait.String()).Warn("push channel disconnected")

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// delivery is one message tagged with the collection its subscription covers
type delivery struct {
	collection models.Collection
	msg        *stomp.Message
}

func (s *StompSource) session(ctx context.Context, b backoff.BackOff) error {
	ws, _, err := s.dialer.DialContext(ctx, s.url, s.header)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", s.url, err)
	}
	transport := newWSConn(ws)
	defer transport.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			transport.Close()
		case <-done:
		}
	}()

	host := s.url
	if u, err := url.Parse(s.url); err == nil {
		host = u.Hostname()
	}
	client, err := stomp.Connect(transport,
		stomp.ConnOpt.Host(host),
		stomp.ConnOpt.HeartBeat(0, 0),
	)
	if err != nil {
		return fmt.Errorf("broker rejected connection: %w", err)
	}
	defer client.MustDisconnect()
	b.Reset()

	received := make(chan delivery)
	for _, c := range s.collections {
		sub, err := client.Subscribe(c.Topic(), stomp.AckAuto)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", c.Topic(), err)
		}
		go forward(c, sub, received, done)
	}
	s.log.WithField("topics", len(s.collections)).Info("push channel connected")

	for {
		select {
		case <-transport.lost:
			return fmt.Errorf("failed to read frame: %w", transport.err)
		case d := <-received:
			if d.msg.Err != nil {
				return fmt.Errorf("broker error: %w", d.msg.Err)
			}
			s.hub.Publish(Event{Collection: d.collection, Origin: OriginStomp, Body: d.msg.Body})
		}
	}
}

// forward relays one subscription into received. A closed subscription is
// reported as an error message so the session ends.
func forward(c models.Collection, sub *stomp.Subscription, received chan<- delivery, done <-chan struct{}) {
	for {
		msg, ok := <-sub.C
		if !ok {
			msg = &stomp.Message{Err: errSubscriptionClosed}
		}
		select {
		case received <- delivery{collection: c, msg: msg}:
		case <-done:
			return
		}
		if !ok || msg.Err != nil {
			return
		}
	}
}
