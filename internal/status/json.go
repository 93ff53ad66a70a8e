package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Motion        bool       `json:"motion"`
	State         int        `json:"state"`
	MotionCount   uint64     `json:"motion_count"`
	Clients       int        `json:"clients_connected"`
	LastChange    string     `json:"last_change,omitempty"`
	UptimeSeconds int64      `json:"uptime_seconds"`
	StartTime     string     `json:"start_time"`
	Timestamp     string     `json:"timestamp"`
	MQTT          MQTTStatus `json:"mqtt"`
	Config        ConfigJSON `json:"config"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Enabled   bool   `json:"enabled"`
	Connected bool   `json:"connected"`
	Broker    string `json:"broker,omitempty"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	PIRPin         int    `json:"pir_pin"`
	Port           int    `json:"port"`
	SendIntervalMs int64  `json:"send_interval_ms"`
	HTTPAddr       string `json:"http_addr,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Motion:        snap.Sensor.Motion,
		State:         snap.Sensor.State(),
		MotionCount:   snap.Sensor.Count,
		Clients:       snap.Clients,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT: MQTTStatus{
			Enabled:   snap.Config.MQTTBroker != "",
			Connected: snap.MQTTConnected,
			Broker:    snap.Config.MQTTBroker,
		},
		Config: ConfigJSON{
			PIRPin:         snap.Config.PIRPin,
			Port:           snap.Config.Port,
			SendIntervalMs: snap.Config.SendIntervalMs,
			HTTPAddr:       snap.Config.HTTPAddr,
		},
	}
	if !snap.Sensor.LastChange.IsZero() {
		inner.LastChange = snap.Sensor.LastChange.UTC().Format(time.RFC3339)
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}
