package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Action tells the worker what to do with the ledger row of a transaction.
type Action string

const (
	ActionSync   Action = "sync"
	ActionDelete Action = "delete"
)

// TransactionMessage is a lightweight notification about a transaction change.
// Sync messages carry only the ID and version: the worker fetches the full
// transaction from the database and skips the message if the version is stale.
type TransactionMessage struct {
	Action    Action    `json:"action"`
	ID        string    `json:"id"`
	UserID    string    `json:"userId,omitempty"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSyncMessage creates a sync message for the given transaction version.
func NewSyncMessage(id string, version int64) *TransactionMessage {
	return &TransactionMessage{
		Action:    ActionSync,
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// NewDeleteMessage creates a message removing a transaction from the ledger.
func NewDeleteMessage(id, userID string) *TransactionMessage {
	return &TransactionMessage{
		Action:    ActionDelete,
		ID:        id,
		UserID:    userID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionMessageFromJSON decodes and validates a message.
func TransactionMessageFromJSON(data []byte) (*TransactionMessage, error) {
	var msg TransactionMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("message without transaction id")
	}
	switch msg.Action {
	case ActionSync, ActionDelete:
	case "":
		msg.Action = ActionSync
	default:
		return nil, fmt.Errorf("unknown action %q", msg.Action)
	}
	return &msg, nil
}
