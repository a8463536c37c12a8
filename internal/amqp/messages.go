package amqp

import (
	"encoding/json"
	"time"
)

// LedgerChangeMessage announces that a committed operation touched the
// listed transaction IDs. The worker fetches the current snapshot from
// the database, so the message stays lightweight.
type LedgerChangeMessage struct {
	Op        string    `json:"op"`
	IDs       []string  `json:"ids"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerChangeMessage(op string, ids []string) *LedgerChangeMessage {
	return &LedgerChangeMessage{
		Op:        op,
		IDs:       ids,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *LedgerChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func LedgerChangeMessageFromJSON(data []byte) (*LedgerChangeMessage, error) {
	var msg LedgerChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
