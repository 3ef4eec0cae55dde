package activity

import (
	"encoding/json"
	"time"
)

// Type represents the kind of event an activity reports.
type Type string

const (
	TypeWeighingCreated         Type = "pesagem_criada"
	TypeWeighingUpdated         Type = "pesagem_atualizada"
	TypeCollectionCreated       Type = "coleta_criada"
	TypeCollectionUpdated       Type = "coleta_atualizada"
	TypeCollectionStatusChanged Type = "coleta_status_alterado"
	TypeUserLogin               Type = "usuario_login"
)

// Valid reports whether t is one of the known activity types.
func (t Type) Valid() bool {
	switch t {
	case TypeWeighingCreated, TypeWeighingUpdated,
		TypeCollectionCreated, TypeCollectionUpdated, TypeCollectionStatusChanged,
		TypeUserLogin:
		return true
	}
	return false
}

// TimestampLayout is the ISO-8601 layout used for locally generated timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// User identifies the actor behind an activity. Display only.
type User struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// Activity is a single notification-worthy event.
type Activity struct {
	ID        string          `json:"id"`
	Type      Type            `json:"type"`
	Message   string          `json:"message"`
	Details   json.RawMessage `json:"details,omitempty"`
	Timestamp string          `json:"timestamp"`
	Read      bool            `json:"read"`
	User      *User           `json:"user,omitempty"`
}

// Now returns the current time formatted with TimestampLayout.
func Now() string {
	return time.Now().UTC().Format(TimestampLayout)
}
