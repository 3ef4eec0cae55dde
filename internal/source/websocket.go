package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketConfig configures the websocket source.
type WebSocketConfig struct {
	URL    string
	Header http.Header
	Retry  RetryPolicy
}

// WebSocket receives enveloped events over a websocket connection.
type WebSocket struct {
	cfg    WebSocketConfig
	sink   Sink
	logger *slog.Logger
	dialer *websocket.Dialer
	life   lifecycle
}

// NewWebSocket creates a websocket source adapter.
func NewWebSocket(cfg WebSocketConfig, sink Sink, logger *slog.Logger) *WebSocket {
	return &WebSocket{
		cfg:    cfg,
		sink:   sink,
		logger: discardLogger(logger).With("source", "websocket", "url", cfg.URL),
		dialer: websocket.DefaultDialer,
	}
}

// Connect starts the connection loop; ctx bounds its lifetime.
func (w *WebSocket) Connect(ctx context.Context) error {
	if w.cfg.URL == "" {
		return fmt.Errorf("websocket source: missing url")
	}
	w.life.start(ctx, func(ctx context.Context) {
		maintain(ctx, w.cfg.Retry, w.logger, &w.life.connected, w.dial)
	})
	return nil
}

// Disconnect closes the connection, if any.
func (w *WebSocket) Disconnect() {
	w.life.stop()
}

// Connected reports whether the websocket is open.
func (w *WebSocket) Connected() bool {
	return w.life.connected.Load()
}

func (w *WebSocket) dial(ctx context.Context) (func() error, error) {
	conn, resp, err := w.dialer.DialContext(ctx, w.cfg.URL, w.cfg.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("dial %s: %s: %w", w.cfg.URL, resp.Status, err)
		}
		return nil, fmt.Errorf("dial %s: %w", w.cfg.URL, err)
	}

	serve := func() error {
		stop := make(chan struct{})
		var once sync.Once
		closeConn := func() { once.Do(func() { _ = conn.Close() }) }
		defer closeConn()
		go func() {
			select {
			case <-ctx.Done():
				closeConn()
			case <-stop:
			}
		}()
		defer close(stop)

		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				return err
			}
			msg, err := DecodeEnvelope(frame)
			forward(ctx, w.sink, w.logger, msg, err)
		}
	}
	return serve, nil
}
