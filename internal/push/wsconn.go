package push

import (
	"io"
	"sync"

	"github.com/gorilla/websocket"
)

// wsConn exposes a WebSocket as the byte stream a STOMP client expects.
// Each write goes out as one text message; reads run across message
// boundaries. lost is closed once the first read fails.
type wsConn struct {
	conn   *websocket.Conn
	reader io.Reader

	once sync.Once
	lost chan struct{}
	err  error
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{conn: conn, lost: make(chan struct{})}
}

func (c *wsConn) Read(p []byte) (int, error) {
	for {
		if c.reader == nil {
			_, r, err := c.conn.NextReader()
			if err != nil {
				c.fail(err)
				return 0, err
			}
			c.reader = r
		}
		n, err := c.reader.Read(p)
		if err == io.EOF {
			c.reader = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		if err != nil {
			c.fail(err)
		}
		return n, err
	}
}

func (c *wsConn) Write(p []byte) (int, error) {
	if err := c.conn.WriteMessage(websocket.TextMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (c *wsConn) Close() error {
	return c.conn.Close()
}

func (c *wsConn) fail(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.lost)
	})
}
