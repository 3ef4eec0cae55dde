package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTConfig configures the MQTT source.
type MQTTConfig struct {
	BrokerURL   string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	QoS         byte
	Retry       RetryPolicy
}

// MQTT receives events published under <prefix>/<event>.
type MQTT struct {
	cfg    MQTTConfig
	sink   Sink
	logger *slog.Logger
	life   lifecycle
}

// NewMQTT creates an MQTT source adapter.
func NewMQTT(cfg MQTTConfig, sink Sink, logger *slog.Logger) *MQTT {
	cfg.TopicPrefix = strings.TrimSuffix(cfg.TopicPrefix, "/")
	if cfg.ClientID == "" {
		cfg.ClientID = "painel"
	}
	return &MQTT{
		cfg:    cfg,
		sink:   sink,
		logger: discardLogger(logger).With("source", "mqtt", "broker", cfg.BrokerURL),
	}
}

// Connect starts the connection loop; ctx bounds its lifetime.
func (m *MQTT) Connect(ctx context.Context) error {
	if m.cfg.BrokerURL == "" {
		return fmt.Errorf("mqtt source: missing broker url")
	}
	m.life.start(ctx, func(ctx context.Context) {
		maintain(ctx, m.cfg.Retry, m.logger, &m.life.connected, m.dial)
	})
	return nil
}

// Disconnect closes the broker connection, if any.
func (m *MQTT) Disconnect() {
	m.life.stop()
}

// Connected reports whether the broker connection is up.
func (m *MQTT) Connected() bool {
	return m.life.connected.Load()
}

func (m *MQTT) topics() map[string]byte {
	return map[string]byte{
		m.cfg.TopicPrefix + "/" + EventNewActivity:      m.cfg.QoS,
		m.cfg.TopicPrefix + "/" + EventDeliveriesUpdate: m.cfg.QoS,
	}
}

func (m *MQTT) dial(ctx context.Context) (func() error, error) {
	lost := make(chan error, 1)

	// Reconnection is driven by maintain, so paho's own retry stays off.
	opts := mqtt.NewClientOptions().
		AddBroker(m.cfg.BrokerURL).
		SetClientID(m.cfg.ClientID).
		SetCleanSession(true).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetConnectTimeout(10 * time.Second).
		SetAutoReconnect(false).
		SetConnectRetry(false)
	if m.cfg.Username != "" {
		opts.SetUsername(m.cfg.Username)
	}
	if m.cfg.Password != "" {
		opts.SetPassword(m.cfg.Password)
	}
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		select {
		case lost <- err:
		default:
		}
	})

	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect %s: %w", m.cfg.BrokerURL, token.Error())
	}

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		m.handle(ctx, msg.Topic(), msg.Payload())
	}
	if token := client.SubscribeMultiple(m.topics(), handler); token.Wait() && token.Error() != nil {
		client.Disconnect(250)
		return nil, fmt.Errorf("subscribe: %w", token.Error())
	}

	serve := func() error {
		select {
		case <-ctx.Done():
			client.Disconnect(250)
			return ctx.Err()
		case err := <-lost:
			if err == nil {
				err = errors.New("connection lost")
			}
			return err
		}
	}
	return serve, nil
}

func (m *MQTT) handle(ctx context.Context, topic string, payload []byte) {
	event := strings.TrimPrefix(topic, m.cfg.TopicPrefix+"/")
	msg, err := Decode(event, payload)
	forward(ctx, m.sink, m.logger, msg, err)
}
