package amqp

import (
	"testing"
	"time"
)

func TestLedgerChangeMessageRoundTrip(t *testing.T) {
	msg := NewLedgerChangeMessage("transactions.create", []string{"t1", "t2", "t3"})
	if msg.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}

	body, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := LedgerChangeMessageFromJSON(body)
	if err != nil {
		t.Fatalf("FromJSON() error = %v", err)
	}
	if got.Op != "transactions.create" {
		t.Errorf("op = %s", got.Op)
	}
	if len(got.IDs) != 3 || got.IDs[0] != "t1" {
		t.Errorf("ids = %v", got.IDs)
	}
	if got.Timestamp.Sub(msg.Timestamp) > time.Second {
		t.Errorf("timestamp drifted: %s vs %s", got.Timestamp, msg.Timestamp)
	}
}

func TestLedgerChangeMessageFromJSONInvalid(t *testing.T) {
	if _, err := LedgerChangeMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
