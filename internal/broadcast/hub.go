// Package broadcast maintains the set of connected clients and pushes
// state messages to all of them, best effort.
package broadcast

import (
	"net"
	"sync"
	"time"

	"github.com/sweeney/pir-video/internal/logging"
)

var logger = logging.New("broadcast")

// defaultWriteTimeout bounds a single client write so a stalled peer
// cannot hold up the broadcast tick.
const defaultWriteTimeout = 2 * time.Second

// Hub is the set of live client connections. Add/Remove and Broadcast
// serialize on one mutex; contention is negligible at this scale.
type Hub struct {
	mu           sync.Mutex
	conns        map[net.Conn]struct{}
	writeTimeout time.Duration
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		conns:        make(map[net.Conn]struct{}),
		writeTimeout: defaultWriteTimeout,
	}
}

// Add registers a connection. If greeting is non-nil it is written first;
// a failed greeting drops the connection immediately.
func (h *Hub) Add(conn net.Conn, greeting []byte) {
	if greeting != nil {
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if _, err := conn.Write(greeting); err != nil {
			logger.Warnw("greeting failed, dropping client", "remote", conn.RemoteAddr(), "error", err)
			conn.Close()
			return
		}
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	n := len(h.conns)
	h.mu.Unlock()

	logger.Infow("client connected", "remote", conn.RemoteAddr(), "clients", n)
}

// Count returns the number of live connections.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

// Broadcast writes payload to every connection. A write error closes and
// removes that connection only; remaining members still receive the same
// payload. There is no retry and no backoff. Returns the number of
// successful deliveries.
func (h *Hub) Broadcast(payload []byte) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	delivered := 0
	for conn := range h.conns {
		conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		if _, err := conn.Write(payload); err != nil {
			logger.Infow("client disconnected", "remote", conn.RemoteAddr(), "error", err)
			conn.Close()
			delete(h.conns, conn)
			continue
		}
		delivered++
	}
	return delivered
}

// CloseAll closes every connection and empties the set.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		conn.Close()
		delete(h.conns, conn)
	}
}
