package source

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/domain/delivery"
	"github.com/rpggio/painel/internal/feed"
)

// Inbound event names.
const (
	EventNewActivity      = "new_activity"
	EventDeliveriesUpdate = "deliveries_update"
)

var (
	// ErrUnknownEvent indicates an event name this adapter does not handle.
	ErrUnknownEvent = errors.New("unknown event")
	// ErrMalformedPayload indicates a payload that does not decode.
	ErrMalformedPayload = errors.New("malformed payload")
)

// Envelope is the websocket frame shape: an event name and its payload.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Decode turns an inbound event into a feed message.
func Decode(event string, data []byte) (feed.Message, error) {
	switch event {
	case EventNewActivity:
		var a activity.Activity
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, event, err)
		}
		// Live entries always arrive unread.
		a.Read = false
		return feed.NewActivity{Activity: a}, nil
	case EventDeliveriesUpdate:
		var ds []delivery.DeliveryInProgress
		if err := json.Unmarshal(data, &ds); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, event, err)
		}
		if ds == nil {
			ds = []delivery.DeliveryInProgress{}
		}
		return feed.DeliveriesUpdate{Deliveries: ds}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, event)
	}
}

// DecodeEnvelope decodes a full websocket frame.
func DecodeEnvelope(frame []byte) (feed.Message, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return Decode(env.Event, env.Data)
}
