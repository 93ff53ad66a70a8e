// Package wire defines the motion-state broadcast protocol: one JSON
// object per line over a plain TCP stream, server to client only.
package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Message type discriminators.
const (
	TypeState   = "pir_state"
	TypeWelcome = "welcome"
)

// StateMessage is the periodic sensor state broadcast. It is sent on
// every interval regardless of whether anything changed. The invariant
// Motion == (State == 1) holds on both ends.
type StateMessage struct {
	Type             string `json:"type"`
	Timestamp        string `json:"timestamp"`
	State            int    `json:"state"`
	Motion           bool   `json:"motion"`
	MotionCount      uint64 `json:"motion_count"`
	ClientsConnected uint32 `json:"clients_connected"`
}

// WelcomeMessage is sent once to each client right after it connects,
// carrying the state at connection time.
type WelcomeMessage struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
	PIRState  int    `json:"pir_state"`
}

// NewStateMessage builds a state message for the given sensor values.
func NewStateMessage(motion bool, count uint64, clients uint32, now time.Time) StateMessage {
	state := 0
	if motion {
		state = 1
	}
	return StateMessage{
		Type:             TypeState,
		Timestamp:        now.UTC().Format(time.RFC3339),
		State:            state,
		Motion:           motion,
		MotionCount:      count,
		ClientsConnected: clients,
	}
}

// NewWelcomeMessage builds a welcome message for a just-accepted client.
func NewWelcomeMessage(motion bool, now time.Time) WelcomeMessage {
	state := 0
	if motion {
		state = 1
	}
	return WelcomeMessage{
		Type:      TypeWelcome,
		Message:   "Connected to PIR server",
		Timestamp: now.UTC().Format(time.RFC3339),
		PIRState:  state,
	}
}

// Encode serializes a message to a newline-terminated JSON line.
func Encode(msg interface{}) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode message: %w", err)
	}
	return append(data, '\n'), nil
}

// MessageType returns the type discriminator of a received line. Unknown
// types are not an error; callers are expected to ignore them.
func MessageType(line []byte) (string, error) {
	var env struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(line), &env); err != nil {
		return "", fmt.Errorf("decode envelope: %w", err)
	}
	return env.Type, nil
}

// DecodeState parses a pir_state line.
func DecodeState(line []byte) (StateMessage, error) {
	var msg StateMessage
	if err := json.Unmarshal(bytes.TrimSpace(line), &msg); err != nil {
		return StateMessage{}, fmt.Errorf("decode state message: %w", err)
	}
	return msg, nil
}

// DecodeWelcome parses a welcome line.
func DecodeWelcome(line []byte) (WelcomeMessage, error) {
	var msg WelcomeMessage
	if err := json.Unmarshal(bytes.TrimSpace(line), &msg); err != nil {
		return WelcomeMessage{}, fmt.Errorf("decode welcome message: %w", err)
	}
	return msg, nil
}
