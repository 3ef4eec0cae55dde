package transport

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/painel/internal/feed"
)

const (
	pushSendBuffer   = 64
	pushWriteTimeout = 10 * time.Second
	pushPongTimeout  = 60 * time.Second
	pushPingInterval = 30 * time.Second
)

// EventSnapshot is sent to a browser right after it connects.
const EventSnapshot = "snapshot"

// pushEnvelope mirrors the inbound frame shape: an event name and payload.
type pushEnvelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

type pushClient struct {
	conn *websocket.Conn
	send chan []byte
}

// PushHub relays feed events to connected browsers over websockets.
type PushHub struct {
	snapshot func() feed.Snapshot
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*pushClient]struct{}
}

// NewPushHub creates a push hub. snapshot supplies the state sent on connect.
func NewPushHub(snapshot func() feed.Snapshot, logger *slog.Logger) *PushHub {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PushHub{
		snapshot: snapshot,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*pushClient]struct{}),
	}
}

// Run relays events until ctx is canceled or events is closed.
func (h *PushHub) Run(ctx context.Context, events <-chan feed.Event) {
	defer h.closeAll()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			payload, err := encodeEvent(ev)
			if err != nil {
				h.logger.Error("failed to encode push event", "kind", ev.Kind, "error", err)
				continue
			}
			h.Broadcast(payload)
		}
	}
}

// Broadcast queues payload for every client. Slow clients are dropped.
func (h *PushHub) Broadcast(payload []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("dropping slow push client")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// ClientCount returns the number of connected browsers.
func (h *PushHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP upgrades the request and streams events until the client leaves.
func (h *PushHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	client := &pushClient{conn: conn, send: make(chan []byte, pushSendBuffer)}
	h.register(client)

	// Reader goroutine: keeps the pong deadline fresh and notices disconnects.
	go func() {
		defer h.unregister(client)
		conn.SetReadLimit(1024)
		_ = conn.SetReadDeadline(time.Now().Add(pushPongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pushPongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pushPingInterval)
	defer func() {
		ticker.Stop()
		_ = conn.Close()
	}()
	for {
		select {
		case msg, ok := <-client.send:
			_ = conn.SetWriteDeadline(time.Now().Add(pushWriteTimeout))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.unregister(client)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(pushWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.unregister(client)
				return
			}
		}
	}
}

// register queues the snapshot and adds c under one lock, so an event
// broadcast meanwhile is either in the snapshot or queued after it.
func (h *PushHub) register(c *pushClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if initial, err := json.Marshal(pushEnvelope{Event: EventSnapshot, Data: h.snapshot()}); err == nil {
		c.send <- initial
	} else {
		h.logger.Error("failed to encode push snapshot", "error", err)
	}
	h.clients[c] = struct{}{}
}

func (h *PushHub) unregister(c *pushClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

func (h *PushHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

func encodeEvent(ev feed.Event) ([]byte, error) {
	env := pushEnvelope{Event: string(ev.Kind)}
	switch ev.Kind {
	case feed.EventNewActivity:
		env.Data = ev.Activity
	case feed.EventDeliveriesUpdate:
		env.Data = ev.Snapshot.Deliveries
	default:
		env.Data = map[string]int{"unreadCount": ev.Snapshot.UnreadCount}
	}
	return json.Marshal(env)
}
