package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	OpUpsert = "upsert"
	OpDelete = "delete"
)

// LedgerSyncMessage asks the export worker to mirror one ledger row to
// the spreadsheet. It carries only the identity and operation; the worker
// fetches the full row from the database.
type LedgerSyncMessage struct {
	ID        int64     `json:"id"`
	Owner     string    `json:"owner"`
	Op        string    `json:"op"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLedgerSyncMessage creates an upsert message for a ledger row.
func NewLedgerSyncMessage(id int64, owner string) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		ID:        id,
		Owner:     owner,
		Op:        OpUpsert,
		Timestamp: time.Now(),
	}
}

// NewLedgerDeleteMessage creates a delete message for a ledger row.
func NewLedgerDeleteMessage(id int64, owner string) *LedgerSyncMessage {
	return &LedgerSyncMessage{
		ID:        id,
		Owner:     owner,
		Op:        OpDelete,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerSyncMessageFromJSON parses a message from JSON bytes.
func LedgerSyncMessageFromJSON(data []byte) (*LedgerSyncMessage, error) {
	var msg LedgerSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal ledger sync message: %w", err)
	}
	switch msg.Op {
	case OpUpsert, OpDelete:
	default:
		return nil, fmt.Errorf("unknown ledger sync op %q", msg.Op)
	}
	return &msg, nil
}
