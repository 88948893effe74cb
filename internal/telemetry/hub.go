// Package telemetry streams lighting state to WebSocket clients.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/earthview/internal/logger"
)

const (
	writeTimeout = 250 * time.Millisecond
	sendBuffer   = 8 // frames queued per client before new ones are dropped
)

// Frame is one lighting sample as sent to clients.
type Frame struct {
	Type           string     `json:"type"`
	Time           float64    `json:"time"`
	LightDirection [3]float32 `json:"lightDirection"`
	SunPosition    [3]float32 `json:"sunPosition"`
	SkyboxRotation [3]float32 `json:"skyboxRotation"`
}

// NewFrame builds a lighting frame at elapsed seconds t.
func NewFrame(t float64, direction, sun, skyRotation mgl32.Vec3) Frame {
	return Frame{
		Type:           "lighting",
		Time:           t,
		LightDirection: direction,
		SunPosition:    sun,
		SkyboxRotation: skyRotation,
	}
}

// Hub broadcasts frames to every connected client at most once per
// interval. Publish is called from the frame loop and never waits on the
// network: each client has a small queue drained by its own writer.
type Hub struct {
	interval time.Duration
	now      func() time.Time
	upgrader websocket.Upgrader
	log      *zap.Logger

	mu      sync.RWMutex
	clients map[*client]struct{}
	last    time.Time
	latest  *Frame
	dropped atomic.Int64

	server   *http.Server
	listener net.Listener
}

// client is one websocket subscriber and its outgoing queue.
type client struct {
	conn *websocket.Conn
	send chan Frame
	done chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn: conn,
		send: make(chan Frame, sendBuffer),
		done: make(chan struct{}),
	}
}

// NewHub creates a hub throttled to interval (0 sends every frame).
func NewHub(interval time.Duration) *Hub {
	return &Hub{
		interval: interval,
		now:      time.Now,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // local debugging tool
			},
		},
		log:     logger.Named("telemetry"),
		clients: make(map[*client]struct{}),
	}
}

// Handler returns the HTTP handler serving GET /ws.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", h.serveWS)
	return mux
}

// Start listens on addr and serves in the background.
func (h *Hub) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("telemetry listen %s: %w", addr, err)
	}
	h.listener = ln
	h.server = &http.Server{
		Handler:           h.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := h.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			h.log.Error("telemetry server stopped", zap.Error(err))
		}
	}()
	h.log.Info("telemetry listening", zap.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (h *Hub) Addr() string {
	if h.listener == nil {
		return ""
	}
	return h.listener.Addr().String()
}

// Close stops the server and disconnects every client.
func (h *Hub) Close(ctx context.Context) error {
	var err error
	if h.server != nil {
		err = h.server.Shutdown(ctx)
	}
	h.mu.Lock()
	for c := range h.clients {
		h.drop(c)
	}
	h.mu.Unlock()
	return err
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped returns how many frames were discarded because a client's
// queue was full.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Publish queues f for every client unless the previous broadcast was
// less than one interval ago. It reports whether the frame was broadcast.
// Clients whose queue is full miss the frame.
func (h *Hub) Publish(f Frame) bool {
	now := h.now()

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.last.IsZero() && now.Sub(h.last) < h.interval {
		return false
	}
	h.last = now
	h.latest = &f

	for c := range h.clients {
		select {
		case c.send <- f:
		default:
			h.dropped.Add(1)
		}
	}
	return true
}

// drop unregisters c and stops its writer. Callers hold h.mu.
func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.done)
	c.conn.Close()
}

// writeLoop drains c's queue until the client is dropped or a write fails.
func (h *Hub) writeLoop(c *client) {
	for {
		select {
		case <-c.done:
			return
		case f := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err == nil {
				err = c.conn.WriteJSON(f)
			}
			if err != nil {
				h.log.Debug("telemetry write failed", zap.Error(err))
				// Closing the connection ends the read loop, which drops c.
				c.conn.Close()
				return
			}
		}
	}
}

func (h *Hub) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := newClient(conn)
	h.mu.Lock()
	// New clients get the most recent frame straight away.
	if h.latest != nil {
		c.send <- *h.latest
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.drop(c)
		h.mu.Unlock()
	}()

	go h.writeLoop(c)

	h.log.Debug("telemetry client connected", zap.String("remote", r.RemoteAddr))

	// Clients never send anything meaningful; reading detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.log.Debug("telemetry client gone", zap.Error(err))
			return
		}
	}
}
