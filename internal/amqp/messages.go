package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// EventKind names a ledger mutation.
type EventKind string

const (
	PersonCreated      EventKind = "person.created"
	PersonUpdated      EventKind = "person.updated"
	PersonDeleted      EventKind = "person.deleted"
	CategoryCreated    EventKind = "category.created"
	CategoryUpdated    EventKind = "category.updated"
	CategoryDeleted    EventKind = "category.deleted"
	TransactionCreated EventKind = "transaction.created"
)

// LedgerEvent is a lightweight notification that something changed. It
// carries only the id; consumers reload state from the store.
type LedgerEvent struct {
	Kind      EventKind `json:"kind"`
	EntityID  string    `json:"entityId"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(kind EventKind, entityID string) LedgerEvent {
	return LedgerEvent{
		Kind:      kind,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
	}
}

func (e LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON decodes a message body; events without a kind are rejected.
func LedgerEventFromJSON(data []byte) (LedgerEvent, error) {
	var e LedgerEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return LedgerEvent{}, fmt.Errorf("decode ledger event: %w", err)
	}
	if e.Kind == "" {
		return LedgerEvent{}, fmt.Errorf("decode ledger event: missing kind")
	}
	return e, nil
}
