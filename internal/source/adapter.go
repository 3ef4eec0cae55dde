package source

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rpggio/painel/internal/feed"
)

// Adapter owns one connection to the event source.
type Adapter interface {
	// Connect starts the connection in the background. It is a no-op while a
	// connection (or its retry loop) is already live.
	Connect(ctx context.Context) error
	// Disconnect tears the connection down and abandons pending retries.
	Disconnect()
	// Connected reports whether the transport is currently connected.
	Connected() bool
}

// Sink receives decoded messages. *feed.Hub satisfies it.
type Sink interface {
	Dispatch(ctx context.Context, msg feed.Message) error
}

// RetryPolicy bounds reconnection: at most Attempts retries after a failed
// or lost connection, Delay apart.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultRetryPolicy matches the real-time client defaults.
var DefaultRetryPolicy = RetryPolicy{Attempts: 5, Delay: time.Second}

// dialFunc opens a connection and returns a func that serves it until it drops.
type dialFunc func(ctx context.Context) (serve func() error, err error)

// lifecycle tracks the single live connection loop of an adapter.
type lifecycle struct {
	mu        sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
	connected atomic.Bool
}

func (l *lifecycle) start(ctx context.Context, run func(ctx context.Context)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		return
	}
	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.cancel = cancel
	l.done = done

	go func() {
		defer close(done)
		run(runCtx)
		l.connected.Store(false)
		l.mu.Lock()
		if l.done == done {
			l.cancel = nil
			l.done = nil
		}
		l.mu.Unlock()
		cancel()
	}()
}

func (l *lifecycle) stop() {
	l.mu.Lock()
	cancel, done := l.cancel, l.done
	l.cancel = nil
	l.done = nil
	l.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	l.connected.Store(false)
}

func (l *lifecycle) active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// maintain dials until ctx ends or the retry budget is spent. A successful
// connection resets the budget.
func maintain(ctx context.Context, policy RetryPolicy, logger *slog.Logger, connected *atomic.Bool, dial dialFunc) {
	failures := 0
	for {
		serve, err := dial(ctx)
		if err == nil {
			failures = 0
			connected.Store(true)
			logger.Info("source connected")
			err = serve()
			connected.Store(false)
			if ctx.Err() != nil {
				return
			}
			logger.Warn("source disconnected", "error", err)
		} else {
			if ctx.Err() != nil {
				return
			}
			failures++
			logger.Warn("source connect failed", "attempt", failures, "error", err)
			if failures > policy.Attempts {
				logger.Error("source reconnection attempts exhausted", "attempts", policy.Attempts)
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(policy.Delay):
		}
	}
}

func forward(ctx context.Context, sink Sink, logger *slog.Logger, msg feed.Message, err error) {
	if err != nil {
		logger.Warn("dropping inbound message", "error", err)
		return
	}
	if err := sink.Dispatch(ctx, msg); err != nil && ctx.Err() == nil {
		logger.Warn("failed to dispatch inbound message", "error", err)
	}
}

func discardLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
