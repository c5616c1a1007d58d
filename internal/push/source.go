package push

import (
	"context"
	"fmt"
	"net/http"

	"registry-client/internal/config"
)

// Source feeds remote change notifications into a Hub until its context is
// cancelled
type Source interface {
	Run(ctx context.Context) error
}

// NewSource builds the push source selected by PUSH_TRANSPORT. It returns a
// nil Source for the "none" transport.
func NewSource(cfg *config.Config, hub *Hub, header http.Header) (Source, error) {
	switch cfg.PushTransport {
	case config.PushTransportStomp:
		return NewStompSource(cfg.PushWebSocketURL, hub,
			WithHeader(header),
			WithReconnectDelay(cfg.PushReconnectDelay()),
		), nil
	case config.PushTransportNATS:
		return NewNATSSource(cfg.NATSURL, cfg.NATSSubjectPrefix, hub,
			WithNATSReconnectDelay(cfg.PushReconnectDelay()),
		), nil
	case config.PushTransportNone:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown push transport '%s'", cfg.PushTransport)
}
