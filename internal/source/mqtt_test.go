package source

import (
	"context"
	"testing"
	"time"

	"github.com/rpggio/painel/internal/feed"
	"github.com/stretchr/testify/require"
)

func TestMQTT_HandleRoutesByTopic(t *testing.T) {
	sink := &recordingSink{}
	m := NewMQTT(MQTTConfig{BrokerURL: "tcp://127.0.0.1:1", TopicPrefix: "painel/"}, sink, nil)

	m.handle(context.Background(), "painel/new_activity", []byte(`{"id":"a1","type":"coleta_atualizada"}`))
	m.handle(context.Background(), "painel/deliveries_update", []byte(`[]`))
	m.handle(context.Background(), "painel/deliveries_update", []byte(`{broken`))
	m.handle(context.Background(), "painel/other", []byte(`{}`))

	require.Equal(t, 2, sink.count())
	require.IsType(t, feed.NewActivity{}, sink.msgs[0])
	require.IsType(t, feed.DeliveriesUpdate{}, sink.msgs[1])
}

func TestMQTT_Topics(t *testing.T) {
	m := NewMQTT(MQTTConfig{BrokerURL: "tcp://127.0.0.1:1", TopicPrefix: "painel", QoS: 1}, &recordingSink{}, nil)
	require.Equal(t, map[string]byte{
		"painel/new_activity":      1,
		"painel/deliveries_update": 1,
	}, m.topics())
}

func TestMQTT_GivesUpWhenBrokerUnreachable(t *testing.T) {
	m := NewMQTT(MQTTConfig{
		BrokerURL:   "tcp://127.0.0.1:1",
		TopicPrefix: "painel",
		Retry:       RetryPolicy{Attempts: 1, Delay: 5 * time.Millisecond},
	}, &recordingSink{}, nil)

	require.NoError(t, m.Connect(context.Background()))
	require.Eventually(t, func() bool { return !m.life.active() }, 5*time.Second, 10*time.Millisecond)
	require.False(t, m.Connected())
	m.Disconnect()
}

func TestMQTT_MissingBroker(t *testing.T) {
	m := NewMQTT(MQTTConfig{}, &recordingSink{}, nil)
	require.Error(t, m.Connect(context.Background()))
}
