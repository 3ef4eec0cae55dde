package transport

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/domain/delivery"
	"github.com/rpggio/painel/internal/feed"
	"github.com/stretchr/testify/require"
)

type pushFrame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func startPush(t *testing.T, hub *feed.Hub) (*PushHub, string) {
	t.Helper()
	push := NewPushHub(hub.Snapshot, nil)
	events, unsubscribe := hub.Subscribe(16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		push.Run(ctx, events)
	}()

	server := httptest.NewServer(push)
	t.Cleanup(func() {
		server.Close()
		cancel()
		unsubscribe()
		<-done
	})
	return push, "ws" + strings.TrimPrefix(server.URL, "http")
}

func readFrame(t *testing.T, conn *websocket.Conn) pushFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var frame pushFrame
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestPushHub_SnapshotThenEvents(t *testing.T) {
	hub := startHub(t)
	seed(t, hub, feed.NewActivity{Activity: activity.Activity{ID: "a1"}})
	push, url := startPush(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	frame := readFrame(t, conn)
	require.Equal(t, EventSnapshot, frame.Event)
	var snap feed.Snapshot
	require.NoError(t, json.Unmarshal(frame.Data, &snap))
	require.Len(t, snap.Activities, 1)
	require.Equal(t, 1, snap.UnreadCount)
	require.Equal(t, 1, push.ClientCount())

	seed(t, hub, feed.NewActivity{Activity: activity.Activity{ID: "a2", Message: "Nova pesagem"}})
	frame = readFrame(t, conn)
	require.Equal(t, string(feed.EventNewActivity), frame.Event)
	var got activity.Activity
	require.NoError(t, json.Unmarshal(frame.Data, &got))
	require.Equal(t, "a2", got.ID)

	seed(t, hub, feed.DeliveriesUpdate{Deliveries: []delivery.DeliveryInProgress{{ID: "d1"}}})
	frame = readFrame(t, conn)
	require.Equal(t, string(feed.EventDeliveriesUpdate), frame.Event)
	var deliveries []delivery.DeliveryInProgress
	require.NoError(t, json.Unmarshal(frame.Data, &deliveries))
	require.Len(t, deliveries, 1)

	seed(t, hub, feed.MarkAllRead{})
	frame = readFrame(t, conn)
	require.Equal(t, string(feed.EventActivitiesRead), frame.Event)
	require.JSONEq(t, `{"unreadCount":0}`, string(frame.Data))
}

func TestPushHub_ClientLeaves(t *testing.T) {
	hub := startHub(t)
	push, url := startPush(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	readFrame(t, conn)
	require.Equal(t, 1, push.ClientCount())

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return push.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestEncodeEvent(t *testing.T) {
	payload, err := encodeEvent(feed.Event{Kind: feed.EventActivitiesRead, Snapshot: feed.Snapshot{UnreadCount: 3}})
	require.NoError(t, err)
	require.JSONEq(t, `{"event":"activities_read","data":{"unreadCount":3}}`, string(payload))
}

func TestPushHub_RegisterQueuesSnapshotFirst(t *testing.T) {
	push := NewPushHub(func() feed.Snapshot { return feed.Snapshot{UnreadCount: 2} }, nil)

	broadcasting := make(chan struct{})
	go func() {
		defer close(broadcasting)
		for i := 0; i < 10; i++ {
			push.Broadcast([]byte(`{"event":"new_activity"}`))
		}
	}()

	client := &pushClient{send: make(chan []byte, pushSendBuffer)}
	push.register(client)
	<-broadcasting

	var first pushFrame
	require.NoError(t, json.Unmarshal(<-client.send, &first))
	require.Equal(t, EventSnapshot, first.Event)
	require.JSONEq(t, `2`, string(mustField(t, first.Data, "unreadCount")))

	push.Broadcast([]byte(`{"event":"activities_read"}`))
	var last []byte
	for len(client.send) > 0 {
		last = <-client.send
	}
	require.JSONEq(t, `{"event":"activities_read"}`, string(last))
}

func mustField(t *testing.T, raw json.RawMessage, key string) json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	v, ok := fields[key]
	require.True(t, ok, "missing %s", key)
	return v
}
