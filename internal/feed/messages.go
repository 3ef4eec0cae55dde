package feed

import (
	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/domain/delivery"
)

// Message is a mutation request consumed by the hub reducer.
type Message interface {
	isMessage()
}

// NewActivity appends an activity to the live log.
type NewActivity struct {
	Activity activity.Activity
}

// DeliveriesUpdate replaces the delivery snapshot.
type DeliveriesUpdate struct {
	Deliveries []delivery.DeliveryInProgress
}

// MarkRead marks one activity as read.
type MarkRead struct {
	ID string
}

// MarkAllRead marks every live activity as read.
type MarkAllRead struct{}

// barrier is closed by the reducer once every earlier message is applied.
type barrier struct {
	done chan struct{}
}

func (NewActivity) isMessage()      {}
func (DeliveriesUpdate) isMessage() {}
func (MarkRead) isMessage()         {}
func (MarkAllRead) isMessage()      {}
func (barrier) isMessage()          {}

// EventKind names the change a subscriber is told about.
type EventKind string

const (
	EventNewActivity      EventKind = "new_activity"
	EventDeliveriesUpdate EventKind = "deliveries_update"
	EventActivitiesRead   EventKind = "activities_read"
)

// Snapshot is a consistent read-only copy of the hub state.
type Snapshot struct {
	Activities  []activity.Activity           `json:"activities"`
	UnreadCount int                           `json:"unreadCount"`
	Deliveries  []delivery.DeliveryInProgress `json:"deliveries"`
}

// Event is sent to subscribers after each applied mutation.
type Event struct {
	Kind     EventKind
	Activity *activity.Activity
	Snapshot Snapshot
}
