package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeTimeout = 10 * time.Second
	readTimeout  = 5 * time.Minute
)

// wire is the subset of *websocket.Conn the wrapper drives.
type wire interface {
	SetWriteDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	WriteJSON(v interface{}) error
	ReadJSON(v interface{}) error
	Close() error
}

// Conn serializes writes to one websocket connection. gorilla/websocket
// permits at most one concurrent writer per connection, and a room member's
// connection is written from two goroutines: its own handler (pong, error
// events) and other participants' handlers fanning out roster events. Every
// write goes through the same mutex.
type Conn struct {
	mu sync.Mutex
	ws wire
}

// NewConn wraps an upgraded gorilla connection.
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{ws: ws}
}

// WriteTyped sends a strongly-typed payload over the WebSocket.
func (c *Conn) WriteTyped(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

// WriteError sends a typed ErrorResponse over the WebSocket.
func (c *Conn) WriteError(errMsg string) error {
	return c.WriteTyped(ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON reads and decodes a message into the provided structure.
// It sets a read deadline so an abandoned connection eventually errors out.
// Reads are not serialized: each connection has exactly one reader goroutine.
func (c *Conn) ReadJSON(v interface{}) error {
	c.ws.SetReadDeadline(time.Now().Add(readTimeout))
	return c.ws.ReadJSON(v)
}

// Close closes the underlying connection.
func (c *Conn) Close() error {
	return c.ws.Close()
}
