package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/domain/delivery"
)

// ErrClosed is returned when dispatching to a hub that has stopped.
var ErrClosed = errors.New("feed hub closed")

const defaultQueueSize = 256

// Recorder persists live activity changes. activity.Service satisfies it.
type Recorder interface {
	Record(ctx context.Context, entry *activity.Activity) error
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
}

// Options configures a Hub.
type Options struct {
	Capacity  int
	QueueSize int
	Recorder  Recorder
	Logger    *slog.Logger
}

// Hub owns the activity and delivery stores. A single goroutine (Run)
// applies every mutation in arrival order; readers see copies.
type Hub struct {
	inbox      chan Message
	stopped    chan struct{}
	activities *activity.Store
	deliveries *delivery.Store
	recorder   Recorder
	logger     *slog.Logger

	mu       sync.RWMutex
	snapshot Snapshot

	subsMu  sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// NewHub creates a hub. Call Run to start applying messages.
func NewHub(opts Options) *Hub {
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Hub{
		inbox:      make(chan Message, opts.QueueSize),
		stopped:    make(chan struct{}),
		activities: activity.NewStore(opts.Capacity),
		deliveries: delivery.NewStore(),
		recorder:   opts.Recorder,
		logger:     logger,
		snapshot: Snapshot{
			Activities: []activity.Activity{},
			Deliveries: []delivery.DeliveryInProgress{},
		},
		subs: make(map[int]chan Event),
	}
}

// Dispatch queues msg for the reducer. It blocks while the queue is full.
func (h *Hub) Dispatch(ctx context.Context, msg Message) error {
	select {
	case <-h.stopped:
		return ErrClosed
	default:
	}
	select {
	case h.inbox <- msg:
		return nil
	case <-h.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Flush waits until every message dispatched before the call is applied.
func (h *Hub) Flush(ctx context.Context) error {
	b := barrier{done: make(chan struct{})}
	if err := h.Dispatch(ctx, b); err != nil {
		return err
	}
	select {
	case <-b.done:
		return nil
	case <-h.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run applies queued messages until ctx is canceled.
func (h *Hub) Run(ctx context.Context) error {
	defer func() {
		close(h.stopped)
		h.closeSubscribers()
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg := <-h.inbox:
			h.apply(ctx, msg)
		}
	}
}

// Snapshot returns the latest state. Its slices must not be modified.
func (h *Hub) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snapshot
}

// Subscribe registers for change events. Events are dropped while the
// subscriber's buffer is full. The returned func unsubscribes.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan Event, buffer)

	h.subsMu.Lock()
	id := h.nextSub
	h.nextSub++
	if h.subs == nil {
		close(ch)
	} else {
		h.subs[id] = ch
	}
	h.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.subsMu.Lock()
			defer h.subsMu.Unlock()
			if sub, ok := h.subs[id]; ok {
				delete(h.subs, id)
				close(sub)
			}
		})
	}
}

func (h *Hub) apply(ctx context.Context, msg Message) {
	switch m := msg.(type) {
	case NewActivity:
		entry := m.Activity
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		if entry.Timestamp == "" {
			entry.Timestamp = activity.Now()
		}
		h.activities.Append(entry)
		h.record(ctx, entry)
		h.publish(Event{Kind: EventNewActivity, Activity: &entry})
	case DeliveriesUpdate:
		h.deliveries.Replace(m.Deliveries)
		h.publish(Event{Kind: EventDeliveriesUpdate})
	case MarkRead:
		h.activities.MarkAsRead(m.ID)
		if h.recorder != nil {
			if err := h.recorder.MarkRead(ctx, m.ID); err != nil {
				h.logger.Warn("failed to persist read mark", "id", m.ID, "error", err)
			}
		}
		h.publish(Event{Kind: EventActivitiesRead})
	case MarkAllRead:
		h.activities.MarkAllAsRead()
		if h.recorder != nil {
			if err := h.recorder.MarkAllRead(ctx); err != nil {
				h.logger.Warn("failed to persist read marks", "error", err)
			}
		}
		h.publish(Event{Kind: EventActivitiesRead})
	case barrier:
		close(m.done)
	default:
		h.logger.Warn("ignoring unknown feed message")
	}
}

func (h *Hub) record(ctx context.Context, entry activity.Activity) {
	if h.recorder == nil {
		return
	}
	if err := h.recorder.Record(ctx, &entry); err != nil {
		h.logger.Warn("failed to persist activity", "id", entry.ID, "error", err)
	}
}

// publish refreshes the snapshot and fans the event out to subscribers.
func (h *Hub) publish(ev Event) {
	snap := Snapshot{
		Activities:  h.activities.All(),
		UnreadCount: h.activities.UnreadCount(),
		Deliveries:  h.deliveries.List(),
	}
	h.mu.Lock()
	h.snapshot = snap
	h.mu.Unlock()

	ev.Snapshot = snap
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	for id, ch := range h.subs {
		select {
		case ch <- ev:
		default:
			h.logger.Debug("dropping feed event for slow subscriber", "subscriber", id, "kind", ev.Kind)
		}
	}
}

func (h *Hub) closeSubscribers() {
	h.subsMu.Lock()
	defer h.subsMu.Unlock()
	for id, ch := range h.subs {
		close(ch)
		delete(h.subs, id)
	}
	h.subs = nil
}
