package amqp

import "testing"

func TestRecordSyncMessageRoundTrip(t *testing.T) {
	msg := NewUpsertMessage("r1")

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := RecordSyncMessageFromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if decoded.ID != "r1" || decoded.Kind != KindUpsert {
		t.Errorf("decoded %+v", decoded)
	}
}

func TestMessageKinds(t *testing.T) {
	if msg := NewDeleteMessage("r2"); msg.Kind != KindDelete || msg.ID != "r2" {
		t.Errorf("delete message %+v", msg)
	}
	if msg := NewUpsertMessage("r3"); msg.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
}

func TestFromJSONRejectsGarbage(t *testing.T) {
	if _, err := RecordSyncMessageFromJSON([]byte("not json")); err == nil {
		t.Error("expected decode error")
	}
}
