package push

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"registry-client/internal/models"

	"github.com/go-stomp/stomp/v3/frame"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testBroker is a minimal STOMP broker that answers one CONNECT, records the
// subscriptions and then sends a single organizations change
type testBroker struct {
	upgrader    websocket.Upgrader
	rejectFirst bool
	dropFirst   bool

	mu           sync.Mutex
	connections  int
	destinations []string
	auth         []string
}

func (b *testBroker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	b.mu.Lock()
	b.connections++
	n := b.connections
	b.auth = append(b.auth, r.Header.Get("Authorization"))
	b.mu.Unlock()

	transport := newWSConn(conn)
	reader := frame.NewReader(transport)
	writer := frame.NewWriter(transport)

	f, err := reader.Read()
	if err != nil || f == nil || (f.Command != frame.CONNECT && f.Command != frame.STOMP) {
		return
	}

	if b.rejectFirst && n == 1 {
		_ = writer.Write(frame.New(frame.ERROR, frame.Message, "bad credentials"))
		return
	}
	_ = writer.Write(frame.New(frame.CONNECTED, frame.Version, "1.2", frame.HeartBeat, "0,0"))
	if b.dropFirst && n == 1 {
		return
	}

	ids := map[string]string{}
	for range models.Collections {
		f, err := reader.Read()
		if err != nil || f == nil || f.Command != frame.SUBSCRIBE {
			return
		}
		destination := f.Header.Get(frame.Destination)
		ids[destination] = f.Header.Get(frame.Id)
		b.mu.Lock()
		b.destinations = append(b.destinations, destination)
		b.mu.Unlock()
	}

	topic := models.CollectionOrganizations.Topic()
	msg := frame.New(frame.MESSAGE, frame.Destination, topic, frame.Subscription, ids[topic], frame.MessageId, "1")
	msg.Body = []byte(`{"id":42}`)
	_ = writer.Write(msg)

	for {
		if _, err := reader.Read(); err != nil {
			return
		}
	}
}

func (b *testBroker) connectionCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.connections
}

func startBroker(t *testing.T, b *testBroker) string {
	t.Helper()
	server := httptest.NewServer(b)
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
}

func runSource(t *testing.T, src Source) context.CancelFunc {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("push source did not stop")
		}
	})
	return cancel
}

func collect(hub *Hub, collections ...models.Collection) <-chan Event {
	got := make(chan Event, 16)
	hub.Subscribe(func(ev Event) {
		select {
		case got <- ev:
		default:
		}
	}, collections...)
	return got
}

func waitEvent(t *testing.T, got <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-got:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification received")
	}
	return Event{}
}

func TestStompSourceDeliversChanges(t *testing.T) {
	broker := &testBroker{}
	hub := NewHub()
	got := collect(hub)

	src := NewStompSource(startBroker(t, broker), hub,
		WithHeader(http.Header{"Authorization": []string{"Bearer abc"}}),
		WithReconnectDelay(10*time.Millisecond),
	)
	runSource(t, src)

	ev := waitEvent(t, got)
	assert.Equal(t, models.CollectionOrganizations, ev.Collection)
	assert.Equal(t, OriginStomp, ev.Origin)
	assert.Equal(t, `{"id":42}`, string(ev.Body))

	broker.mu.Lock()
	defer broker.mu.Unlock()
	assert.ElementsMatch(t, []string{
		"/topic/organizations", "/topic/coordinates", "/topic/addresses", "/topic/locations", "/topic/imports",
	}, broker.destinations)
	assert.Equal(t, "Bearer abc", broker.auth[0])
}

func TestStompSourceReconnectsAfterError(t *testing.T) {
	broker := &testBroker{rejectFirst: true}
	hub := NewHub()
	got := collect(hub, models.CollectionOrganizations)

	runSource(t, NewStompSource(startBroker(t, broker), hub, WithReconnectDelay(10*time.Millisecond)))

	waitEvent(t, got)
	assert.GreaterOrEqual(t, broker.connectionCount(), 2)
}

func TestStompSourceReconnectsAfterDrop(t *testing.T) {
	broker := &testBroker{dropFirst: true}
	hub := NewHub()
	got := collect(hub, models.CollectionOrganizations)

	runSource(t, NewStompSource(startBroker(t, broker), hub, WithReconnectDelay(10*time.Millisecond)))

	waitEvent(t, got)
	assert.GreaterOrEqual(t, broker.connectionCount(), 2)
}

func TestStompSourceStopsWhileWaitingToReconnect(t *testing.T) {
	hub := NewHub()
	src := NewStompSource("ws://127.0.0.1:1/ws", hub, WithReconnectDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- src.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("push source did not stop")
	}
}

func TestWSConnStreamsAcrossMessages(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.WriteMessage(websocket.TextMessage, []byte("CONN"))
		_ = conn.WriteMessage(websocket.TextMessage, []byte("ECTED"))
	}))
	t.Cleanup(server.Close)

	ws, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	transport := newWSConn(ws)
	defer transport.Close()

	buf := make([]byte, len("CONNECTED"))
	_, err = io.ReadFull(transport, buf)
	require.NoError(t, err)
	assert.Equal(t, "CONNECTED", string(buf))

	_, err = transport.Read(buf)
	assert.Error(t, err)
	select {
	case <-transport.lost:
		assert.Equal(t, err, transport.err)
	default:
		t.Fatal("lost not signalled after a failed read")
	}
}
