// Package motion contains pure state tracking for the PIR sensor.
// This package has no external dependencies (no GPIO, network, or
// time.Sleep). Time is always injectable via time.Time parameters.
package motion

import "time"

// EventType represents a raw sensor transition.
type EventType string

const (
	EventMotionOn  EventType = "MOTION_ON"
	EventMotionOff EventType = "MOTION_OFF"
)

// Event represents a raw sensor transition observed by the monitor.
type Event struct {
	Timestamp time.Time
	Type      EventType
	// Count is the motion counter value after the transition.
	Count uint64
}

// Snapshot is a point-in-time view of sensor state.
type Snapshot struct {
	Motion     bool
	Count      uint64
	LastChange time.Time
}

// State returns the wire representation of the motion boolean (0 or 1).
func (s Snapshot) State() int {
	if s.Motion {
		return 1
	}
	return 0
}

// Monitor tracks the raw PIR signal and a monotonic motion counter.
// The counter increments exactly once per 0→1 transition and never
// decrements; it lives only for the process lifetime. Debounce is
// deliberately absent here — the counter sees every raw transition,
// suppression happens downstream in the fade controller.
type Monitor struct {
	motion     bool
	count      uint64
	lastChange time.Time
}

// NewMonitor creates a monitor with the sensor assumed idle.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// Sample records one sensor reading. The returned event is non-nil only
// when the reading differs from the previous one.
func (m *Monitor) Sample(motion bool, now time.Time) (Snapshot, *Event) {
	var ev *Event
	if motion != m.motion {
		m.motion = motion
		m.lastChange = now
		typ := EventMotionOff
		if motion {
			m.count++
			typ = EventMotionOn
		}
		ev = &Event{Timestamp: now, Type: typ, Count: m.count}
	}
	return m.Snapshot(), ev
}

// Snapshot returns the current sensor state.
func (m *Monitor) Snapshot() Snapshot {
	return Snapshot{Motion: m.motion, Count: m.count, LastChange: m.lastChange}
}
