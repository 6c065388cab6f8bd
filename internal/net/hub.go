package net

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// sendQueueSize is the per-viewer outbound buffer. A viewer that cannot
// keep up is dropped rather than stalling the host.
const sendQueueSize = 64

// Hub fans ping frames out from the host instance to every connected
// viewer over websockets.
type Hub struct {
	log      zerolog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	viewers map[*viewer]struct{}
	closed  bool
}

type viewer struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		viewers: make(map[*viewer]struct{}),
	}
}

// ServeHTTP upgrades a viewer connection and keeps it subscribed until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("viewer upgrade failed")
		return
	}

	v := &viewer{
		conn: conn,
		send: make(chan []byte, sendQueueSize),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return
	}
	h.viewers[v] = struct{}{}
	count := len(h.viewers)
	h.mu.Unlock()

	h.log.Info().Str("remote", conn.RemoteAddr().String()).Int("viewers", count).Msg("viewer connected")

	go h.writePump(v)
	h.readPump(v)
}

// Broadcast queues a frame for every connected viewer. Viewers with a
// full queue are dropped.
func (h *Hub) Broadcast(frame []byte) {
	h.mu.Lock()
	var stale []*viewer
	for v := range h.viewers {
		select {
		case v.send <- frame:
		default:
			stale = append(stale, v)
		}
	}
	for _, v := range stale {
		delete(h.viewers, v)
		close(v.send)
	}
	h.mu.Unlock()

	for _, v := range stale {
		h.log.Warn().Str("remote", v.conn.RemoteAddr().String()).Msg("dropping slow viewer")
		v.conn.Close()
	}
}

// ViewerCount returns the number of connected viewers.
func (h *Hub) ViewerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.viewers)
}

// Close disconnects every viewer and rejects new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	viewers := make([]*viewer, 0, len(h.viewers))
	for v := range h.viewers {
		viewers = append(viewers, v)
		delete(h.viewers, v)
		close(v.send)
	}
	h.mu.Unlock()

	for _, v := range viewers {
		v.conn.Close()
	}
}

// writePump drains a viewer's queue onto its connection.
func (h *Hub) writePump(v *viewer) {
	for frame := range v.send {
		if err := v.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
			h.remove(v)
			return
		}
	}
}

// readPump discards inbound messages; viewers are receive-only. It exits
// when the connection drops, unsubscribing the viewer.
func (h *Hub) readPump(v *viewer) {
	for {
		if _, _, err := v.conn.ReadMessage(); err != nil {
			h.remove(v)
			return
		}
	}
}

func (h *Hub) remove(v *viewer) {
	h.mu.Lock()
	if _, ok := h.viewers[v]; ok {
		delete(h.viewers, v)
		close(v.send)
	}
	h.mu.Unlock()
	v.conn.Close()
}
