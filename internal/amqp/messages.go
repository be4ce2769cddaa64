package amqp

import (
	"encoding/json"
	"time"
)

// Mutation kinds carried by mirror messages.
const (
	KindUpsert = "upsert"
	KindDelete = "delete"
)

// RecordSyncMessage is the lightweight message published after each
// mutation. It carries only the record id and the mutation kind; the worker
// fetches the current state from the store, so a stale message never
// overwrites a newer write.
type RecordSyncMessage struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUpsertMessage builds a message signalling that the record should be
// (re-)mirrored.
func NewUpsertMessage(id string) *RecordSyncMessage {
	return &RecordSyncMessage{ID: id, Kind: KindUpsert, Timestamp: time.Now()}
}

// NewDeleteMessage builds a message signalling that the mirrored row should
// be removed.
func NewDeleteMessage(id string) *RecordSyncMessage {
	return &RecordSyncMessage{ID: id, Kind: KindDelete, Timestamp: time.Now()}
}

// ToJSON converts the message to JSON bytes.
func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordSyncMessageFromJSON decodes a message from JSON bytes.
func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
