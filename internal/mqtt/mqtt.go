// Package mqtt publishes motion transition events to an MQTT broker.
// Publishing is optional; the daemon runs without it when no broker is
// configured.
package mqtt

import (
	"encoding/json"
	"time"

	"github.com/sweeney/pir-video/internal/motion"
)

// Topic is the MQTT topic for motion events.
const Topic = "sensors/pir/motion"

// Publisher publishes motion events to MQTT.
type Publisher interface {
	// Publish sends a motion event to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(event motion.Event) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	PIR PIRPayload `json:"pir"`
}

// PIRPayload contains the motion event details.
type PIRPayload struct {
	Timestamp   string `json:"timestamp"`
	Event       string `json:"event"`
	MotionCount uint64 `json:"motion_count"`
}

// FormatPayload creates the JSON payload for a motion event.
func FormatPayload(event motion.Event) ([]byte, error) {
	payload := Payload{
		PIR: PIRPayload{
			Timestamp:   event.Timestamp.UTC().Format(time.RFC3339),
			Event:       string(event.Type),
			MotionCount: event.Count,
		},
	}
	return json.Marshal(payload)
}
