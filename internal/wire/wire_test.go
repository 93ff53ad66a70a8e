package wire

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestStateMessageExactFormat(t *testing.T) {
	now := time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC)
	msg := NewStateMessage(true, 7, 2, now)

	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"type":"pir_state","timestamp":"2026-02-02T22:18:12Z","state":1,"motion":true,"motion_count":7,"clients_connected":2}` + "\n"
	if string(data) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", data, expected)
	}
}

func TestStateMessageInvariant(t *testing.T) {
	now := time.Now()

	on := NewStateMessage(true, 1, 0, now)
	if on.State != 1 || !on.Motion {
		t.Errorf("motion=true: got state=%d motion=%v", on.State, on.Motion)
	}

	off := NewStateMessage(false, 1, 0, now)
	if off.State != 0 || off.Motion {
		t.Errorf("motion=false: got state=%d motion=%v", off.State, off.Motion)
	}
}

func TestWelcomeMessageExactFormat(t *testing.T) {
	now := time.Date(2026, 2, 2, 22, 18, 12, 0, time.UTC)
	msg := NewWelcomeMessage(false, now)

	data, err := Encode(msg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := `{"type":"welcome","message":"Connected to PIR server","timestamp":"2026-02-02T22:18:12Z","pir_state":0}` + "\n"
	if string(data) != expected {
		t.Errorf("unexpected payload:\ngot:  %s\nwant: %s", data, expected)
	}
}

func TestEncodeTerminatesWithNewline(t *testing.T) {
	data, err := Encode(NewStateMessage(false, 0, 0, time.Now()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(string(data), "\n") {
		t.Error("encoded message must end with a newline")
	}
	if strings.Count(string(data), "\n") != 1 {
		t.Error("encoded message must be a single line")
	}
}

func TestMessageType(t *testing.T) {
	line, _ := Encode(NewStateMessage(true, 3, 1, time.Now()))

	typ, err := MessageType(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != TypeState {
		t.Errorf("type: got %q, want %q", typ, TypeState)
	}
}

func TestMessageTypeUnknown(t *testing.T) {
	typ, err := MessageType([]byte(`{"type":"something_else","x":1}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if typ != "something_else" {
		t.Errorf("type: got %q", typ)
	}
}

func TestMessageTypeInvalidJSON(t *testing.T) {
	if _, err := MessageType([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestDecodeStateRoundTrip(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	line, _ := Encode(NewStateMessage(true, 42, 3, now))

	msg, err := DecodeState(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Type != TypeState {
		t.Errorf("type: got %q", msg.Type)
	}
	if msg.State != 1 || !msg.Motion {
		t.Errorf("state/motion: got %d/%v", msg.State, msg.Motion)
	}
	if msg.MotionCount != 42 {
		t.Errorf("motion_count: got %d, want 42", msg.MotionCount)
	}
	if msg.ClientsConnected != 3 {
		t.Errorf("clients_connected: got %d, want 3", msg.ClientsConnected)
	}
	if msg.Timestamp != "2026-03-14T09:26:53Z" {
		t.Errorf("timestamp: got %q", msg.Timestamp)
	}
}

func TestDecodeWelcome(t *testing.T) {
	line, _ := Encode(NewWelcomeMessage(true, time.Now()))

	msg, err := DecodeWelcome(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.PIRState != 1 {
		t.Errorf("pir_state: got %d, want 1", msg.PIRState)
	}
	if msg.Message == "" {
		t.Error("expected non-empty message")
	}
}

func TestDecodeStateIgnoresExtraFields(t *testing.T) {
	// Older servers included extra diagnostic fields; decoding must not
	// reject them.
	line := []byte(`{"type":"pir_state","timestamp":"2026-01-01T00:00:00Z","state":0,"motion":false,"pin":24,"time_since_change":1.5,"motion_count":0,"clients_connected":1}`)

	msg, err := DecodeState(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ClientsConnected != 1 {
		t.Errorf("clients_connected: got %d, want 1", msg.ClientsConnected)
	}
}

func TestStateMessageJSONFieldNames(t *testing.T) {
	data, _ := json.Marshal(NewStateMessage(false, 0, 0, time.Now()))

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	for _, key := range []string{"type", "timestamp", "state", "motion", "motion_count", "clients_connected"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing field %q", key)
		}
	}
	if len(raw) != 6 {
		t.Errorf("expected exactly 6 fields, got %d", len(raw))
	}
}
