package feed_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/domain/delivery"
	"github.com/rpggio/painel/internal/feed"
	"github.com/rpggio/painel/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, opts feed.Options) *feed.Hub {
	t.Helper()
	hub := feed.NewHub(opts)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return hub
}

func dispatch(t *testing.T, hub *feed.Hub, msgs ...feed.Message) {
	t.Helper()
	ctx := context.Background()
	for _, msg := range msgs {
		require.NoError(t, hub.Dispatch(ctx, msg))
	}
	require.NoError(t, hub.Flush(ctx))
}

func TestHub_ActivityLifecycle(t *testing.T) {
	hub := startHub(t, feed.Options{})

	dispatch(t, hub, feed.NewActivity{Activity: activity.Activity{ID: "a1"}})
	require.Equal(t, 1, hub.Snapshot().UnreadCount)

	dispatch(t, hub, feed.NewActivity{Activity: activity.Activity{ID: "a2"}})
	snap := hub.Snapshot()
	require.Equal(t, 2, snap.UnreadCount)
	require.Equal(t, "a2", snap.Activities[0].ID)
	require.Equal(t, "a1", snap.Activities[1].ID)

	dispatch(t, hub, feed.MarkRead{ID: "a1"})
	snap = hub.Snapshot()
	require.Equal(t, 1, snap.UnreadCount)
	require.Equal(t, "a2", snap.Activities[0].ID)

	dispatch(t, hub, feed.MarkAllRead{})
	require.Equal(t, 0, hub.Snapshot().UnreadCount)
}

func TestHub_BoundedLog(t *testing.T) {
	hub := startHub(t, feed.Options{Capacity: 10})
	for i := 1; i <= 15; i++ {
		require.NoError(t, hub.Dispatch(context.Background(), feed.NewActivity{Activity: activity.Activity{ID: fmt.Sprintf("e%d", i)}}))
	}
	require.NoError(t, hub.Flush(context.Background()))

	snap := hub.Snapshot()
	require.Len(t, snap.Activities, 10)
	require.Equal(t, "e15", snap.Activities[0].ID)
	require.Equal(t, "e6", snap.Activities[9].ID)
	require.Equal(t, 10, snap.UnreadCount)
}

func TestHub_DeliveriesReplaced(t *testing.T) {
	hub := startHub(t, feed.Options{})
	d1 := delivery.DeliveryInProgress{ID: "d1"}
	d2 := delivery.DeliveryInProgress{ID: "d2"}
	d3 := delivery.DeliveryInProgress{ID: "d3"}

	dispatch(t, hub,
		feed.DeliveriesUpdate{Deliveries: []delivery.DeliveryInProgress{d1, d2}},
		feed.DeliveriesUpdate{Deliveries: []delivery.DeliveryInProgress{d3}},
	)
	require.Equal(t, []delivery.DeliveryInProgress{d3}, hub.Snapshot().Deliveries)
}

func TestHub_EmptySnapshot(t *testing.T) {
	hub := feed.NewHub(feed.Options{})
	snap := hub.Snapshot()
	require.NotNil(t, snap.Activities)
	require.NotNil(t, snap.Deliveries)
	require.Equal(t, 0, snap.UnreadCount)
}

func TestHub_SubscribersReceiveEvents(t *testing.T) {
	hub := startHub(t, feed.Options{})
	events, unsubscribe := hub.Subscribe(4)
	defer unsubscribe()

	dispatch(t, hub, feed.NewActivity{Activity: activity.Activity{ID: "a1", Message: "hello"}})

	select {
	case ev := <-events:
		require.Equal(t, feed.EventNewActivity, ev.Kind)
		require.NotNil(t, ev.Activity)
		require.Equal(t, "hello", ev.Activity.Message)
		require.Equal(t, 1, ev.Snapshot.UnreadCount)
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
}

func TestHub_SlowSubscriberDoesNotBlock(t *testing.T) {
	hub := startHub(t, feed.Options{})
	_, unsubscribe := hub.Subscribe(1)
	defer unsubscribe()

	for i := 0; i < 20; i++ {
		require.NoError(t, hub.Dispatch(context.Background(), feed.NewActivity{Activity: activity.Activity{ID: fmt.Sprintf("e%d", i)}}))
	}
	require.NoError(t, hub.Flush(context.Background()))
	require.Equal(t, 20, hub.Snapshot().UnreadCount)
}

func TestHub_RecorderReceivesChanges(t *testing.T) {
	recorder := &mocks.Recorder{}
	recorder.On("Record", mock.Anything, mock.MatchedBy(func(a *activity.Activity) bool { return a.ID == "a1" })).Return(nil)
	recorder.On("MarkRead", mock.Anything, "a1").Return(nil)
	recorder.On("MarkAllRead", mock.Anything).Return(errors.New("locked"))

	hub := startHub(t, feed.Options{Recorder: recorder})
	dispatch(t, hub,
		feed.NewActivity{Activity: activity.Activity{ID: "a1", Type: activity.TypeUserLogin}},
		feed.MarkRead{ID: "a1"},
		feed.MarkAllRead{},
	)

	recorder.AssertExpectations(t)
	require.Equal(t, 0, hub.Snapshot().UnreadCount)
}

func TestHub_AssignsMissingIDBeforeAppend(t *testing.T) {
	var recorded string
	recorder := &mocks.Recorder{}
	recorder.On("Record", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { recorded = args.Get(1).(*activity.Activity).ID }).
		Return(nil)
	recorder.On("MarkRead", mock.Anything, mock.Anything).Return(nil)

	hub := startHub(t, feed.Options{Recorder: recorder})
	dispatch(t, hub, feed.NewActivity{Activity: activity.Activity{Type: activity.TypeUserLogin}})

	snap := hub.Snapshot()
	require.Len(t, snap.Activities, 1)
	live := snap.Activities[0]
	require.NotEmpty(t, live.ID)
	require.NotEmpty(t, live.Timestamp)
	require.Equal(t, live.ID, recorded)

	dispatch(t, hub, feed.MarkRead{ID: live.ID})
	require.Equal(t, 0, hub.Snapshot().UnreadCount)
	recorder.AssertCalled(t, "MarkRead", mock.Anything, live.ID)
}

func TestHub_DispatchAfterStop(t *testing.T) {
	hub := feed.NewHub(feed.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Run(ctx)
	}()
	events, _ := hub.Subscribe(1)
	cancel()
	<-done

	require.ErrorIs(t, hub.Dispatch(context.Background(), feed.MarkAllRead{}), feed.ErrClosed)
	_, ok := <-events
	require.False(t, ok)
}
