// Package status provides a thread-safe status tracker for the pir-server
// daemon. It is read by the HTTP status handlers.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/pir-video/internal/motion"
)

// Config contains daemon configuration for display.
type Config struct {
	PIRPin         int
	Port           int
	SendIntervalMs int64
	HTTPAddr       string
	MQTTBroker     string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type — safe to use after the lock is released.
type Snapshot struct {
	Sensor        motion.Snapshot
	Clients       int
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
	}
}

// Update sets sensor state and client count. Called from the broadcast
// loop on every tick.
func (t *Tracker) Update(sensor motion.Snapshot, clients int) {
	t.mu.Lock()
	t.snap.Sensor = sensor
	t.snap.Clients = clients
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = time.Now()
	return s
}
