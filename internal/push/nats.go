package push

import (
	"context"
	"fmt"
	"time"

	"registry-client/internal/logger"
	"registry-client/internal/models"

	"github.com/nats-io/nats.go"
)

// NATSSource subscribes to <prefix>.<collection> subjects on a NATS server
// and republishes them into a Hub
type NATSSource struct {
	url            string
	prefix         string
	hub            *Hub
	collections    []models.Collection
	reconnectDelay time.Duration
	log            *logger.Logger
}

// NATSOption configures a NATSSource
type NATSOption func(*NATSSource)

// WithNATSReconnectDelay sets the wait between reconnect attempts
func WithNATSReconnectDelay(d time.Duration) NATSOption {
	return func(s *NATSSource) {
		if d > 0 {
			s.reconnectDelay = d
		}
	}
}

// WithNATSCollections limits the subscribed subjects
func WithNATSCollections(collections ...models.Collection) NATSOption {
	return func(s *NATSSource) { s.collections = collections }
}

// NewNATSSource creates a NATS source
func NewNATSSource(url, prefix string, hub *Hub, opts ...NATSOption) *NATSSource {
	s := &NATSSource{
		url:            url,
		prefix:         prefix,
		hub:            hub,
		collections:    models.Collections,
		reconnectDelay: defaultReconnectDelay,
		log:            logger.ForComponent("push.nats"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subject returns the subject carrying changes of a collection
func (s *NATSSource) Subject(c models.Collection) string {
	return s.prefix + "." + string(c)
}

// Run connects and keeps the subscriptions alive until ctx is cancelled
func (s *NATSSource) Run(ctx context.Context) error {
	nc, err := nats.Connect(s.url,
		nats.Name("registry-client"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(s.reconnectDelay),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				s.log.WithError(err).Warn("push channel disconnected")
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			s.log.WithField("url", nc.ConnectedUrl()).Info("push channel reconnected")
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to connect to NATS at %s: %w", s.url, err)
	}
	defer nc.Close()

	for _, c := range s.collections {
		collection := c
		_, err := nc.Subscribe(s.Subject(collection), func(msg *nats.Msg) {
			s.hub.Publish(Event{Collection: collection, Origin: OriginNATS, Body: msg.Data})
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", s.Subject(collection), err)
		}
	}
	s.log.WithField("subjects", len(s.collections)).Info("push channel subscribed")

	<-ctx.Done()
	if err := nc.Drain(); err != nil {
		s.log.WithError(err).Debug("drain failed")
	}
	return nil
}
