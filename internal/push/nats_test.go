package push

import (
	"testing"
	"time"

	"registry-client/internal/models"

	"github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startNATSServer(t *testing.T) *server.Server {
	t.Helper()
	ns, err := server.NewServer(&server.Options{Host: "127.0.0.1", Port: -1, NoLog: true, NoSigs: true})
	require.NoError(t, err)

	go ns.Start()
	if !ns.ReadyForConnections(10 * time.Second) {
		t.Fatal("NATS server not ready for connections")
	}
	t.Cleanup(ns.Shutdown)
	return ns
}

func TestNATSSourceDeliversChanges(t *testing.T) {
	ns := startNATSServer(t)
	hub := NewHub()
	got := collect(hub, models.CollectionCoordinates)

	src := NewNATSSource(ns.ClientURL(), "registry.changes", hub, WithNATSReconnectDelay(10*time.Millisecond))
	assert.Equal(t, "registry.changes.coordinates", src.Subject(models.CollectionCoordinates))
	runSource(t, src)

	publisher, err := nats.Connect(ns.ClientURL())
	require.NoError(t, err)
	defer publisher.Close()

	var ev Event
	require.Eventually(t, func() bool {
		_ = publisher.Publish("registry.changes.coordinates", []byte("changed"))
		_ = publisher.Flush()
		select {
		case ev = <-got:
			return true
		case <-time.After(50 * time.Millisecond):
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)

	assert.Equal(t, models.CollectionCoordinates, ev.Collection)
	assert.Equal(t, OriginNATS, ev.Origin)
	assert.Equal(t, "changed", string(ev.Body))
}
