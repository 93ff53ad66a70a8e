package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/pir-video/internal/motion"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{PIRPin: 24, Port: 5555, SendIntervalMs: 100}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.Port != 5555 {
		t.Errorf("Config.Port: got %d, want 5555", snap.Config.Port)
	}
	if snap.Sensor.Motion {
		t.Error("expected no motion initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(motion.Snapshot{Motion: true, Count: 3}, 2)

	snap := tr.Snapshot()
	if !snap.Sensor.Motion {
		t.Error("expected motion=true")
	}
	if snap.Sensor.Count != 3 {
		t.Errorf("Count: got %d, want 3", snap.Sensor.Count)
	}
	if snap.Clients != 2 {
		t.Errorf("Clients: got %d, want 2", snap.Clients)
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
	}

	if snap.Uptime() != 15*time.Minute {
		t.Errorf("Uptime: got %v, want 15m", snap.Uptime())
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(motion.Snapshot{Motion: true, Count: 1}, 1)

	snap1 := tr.Snapshot()

	tr.Update(motion.Snapshot{Motion: false, Count: 2}, 0)

	if !snap1.Sensor.Motion {
		t.Error("snapshot should be a copy; Motion was modified")
	}
	if snap1.Sensor.Count != 1 {
		t.Error("snapshot should be a copy; Count was modified")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Sensor: motion.Snapshot{
			Motion:     true,
			Count:      5,
			LastChange: start.Add(10 * time.Minute),
		},
		Clients:   2,
		StartTime: start,
		Now:       start.Add(15 * time.Minute),
		Config:    Config{PIRPin: 24, Port: 5555, SendIntervalMs: 100, MQTTBroker: "tcp://localhost:1883"},
	}

	data := FormatJSON(snap)

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if !parsed.Status.Motion || parsed.Status.State != 1 {
		t.Errorf("motion/state: got %v/%d", parsed.Status.Motion, parsed.Status.State)
	}
	if parsed.Status.MotionCount != 5 {
		t.Errorf("MotionCount: got %d, want 5", parsed.Status.MotionCount)
	}
	if parsed.Status.Clients != 2 {
		t.Errorf("Clients: got %d, want 2", parsed.Status.Clients)
	}
	if parsed.Status.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", parsed.Status.UptimeSeconds)
	}
	if parsed.Status.LastChange != "2026-01-01T00:10:00Z" {
		t.Errorf("LastChange: got %q", parsed.Status.LastChange)
	}
	if !parsed.Status.MQTT.Enabled {
		t.Error("expected MQTT.Enabled=true when broker configured")
	}
	if parsed.Status.Config.PIRPin != 24 {
		t.Errorf("Config.PIRPin: got %d, want 24", parsed.Status.Config.PIRPin)
	}
}

func TestFormatJSONOmitsZeroLastChange(t *testing.T) {
	snap := Snapshot{
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Now:       time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
	}

	var raw map[string]interface{}
	json.Unmarshal(FormatJSON(snap), &raw)
	inner := raw["status"].(map[string]interface{})
	if _, exists := inner["last_change"]; exists {
		t.Error("last_change should be omitted before the first transition")
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(motion.Snapshot{Motion: i%2 == 0, Count: uint64(i)}, i%5)
			tr.SetMQTTConnected(i%2 == 0)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
		}
	}()

	wg.Wait()
}
