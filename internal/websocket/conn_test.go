package websocket

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// racyWire records whether two writers were ever inside WriteJSON at the
// same time, the condition gorilla/websocket panics on.
type racyWire struct {
	inFlight atomic.Int32
	overlap  atomic.Bool
	writes   atomic.Int32
}

func (w *racyWire) SetWriteDeadline(time.Time) error { return nil }
func (w *racyWire) SetReadDeadline(time.Time) error  { return nil }
func (w *racyWire) ReadJSON(interface{}) error       { return nil }
func (w *racyWire) Close() error                     { return nil }

func (w *racyWire) WriteJSON(interface{}) error {
	if w.inFlight.Add(1) > 1 {
		w.overlap.Store(true)
	}
	time.Sleep(time.Millisecond)
	w.inFlight.Add(-1)
	w.writes.Add(1)
	return nil
}

func TestConnSerializesConcurrentWriters(t *testing.T) {
	w := &racyWire{}
	conn := &Conn{ws: w}

	// One goroutine answers pings while another fans out roster events:
	// the two write paths that meet on a single room member's connection.
	const perWriter = 50
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			conn.WriteTyped(PongResponse{Event: EventPong})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < perWriter; i++ {
			conn.WriteTyped(PresenceResponse{Event: EventJoined})
		}
	}()
	wg.Wait()

	if w.overlap.Load() {
		t.Fatal("two goroutines were inside WriteJSON at the same time")
	}
	if got := w.writes.Load(); got != 2*perWriter {
		t.Errorf("writes = %d, want %d", got, 2*perWriter)
	}
}
