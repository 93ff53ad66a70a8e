// Package fade contains the pure opacity state machine for the video
// client. It decides, from debounced motion input and the clock, whether
// the video should be visible, hidden, or mid-transition.
//
// This package has no external dependencies (no GPIO, network, or
// time.Sleep). Time is always injectable via time.Time parameters.
package fade

import "time"

// State represents the visibility state of the video surface.
type State string

const (
	StateVisible   State = "VISIBLE"
	StateFadingOut State = "FADING_OUT"
	StateHidden    State = "HIDDEN"
	StateFadingIn  State = "FADING_IN"
)

// Config holds the timing parameters of the controller.
type Config struct {
	// Timeout is how long without motion before the video fades out.
	Timeout time.Duration

	// Debounce is how long the raw motion signal must stay high before
	// it counts as activity. Shorter pulses are ignored.
	Debounce time.Duration

	// FadeOut is the duration of a full 1→0 opacity ramp.
	FadeOut time.Duration

	// FadeIn is the duration of a full 0→1 opacity ramp.
	FadeIn time.Duration
}

// Controller drives video opacity from motion input.
//
// Opacity ramps are linear at full-range rate: reversing a fade
// mid-flight continues from the current opacity with no jump. This is
// done by back-dating the ramp start so the current opacity lies on the
// new ramp.
type Controller struct {
	cfg Config

	state      State
	now        time.Time
	lastMotion time.Time
	fadeStart  time.Time

	// raw debounce tracking
	rawMotion bool
	rawSince  time.Time
}

// NewController creates a controller in the visible state. Motion is
// considered to have just happened, so the inactivity timeout counts
// from now.
func NewController(cfg Config, now time.Time) *Controller {
	return &Controller{
		cfg:        cfg,
		state:      StateVisible,
		now:        now,
		lastMotion: now,
		rawSince:   now,
	}
}

// State returns the current visibility state.
func (c *Controller) State() State {
	return c.state
}

// Update feeds one raw sensor reading into the controller and advances
// the state machine to now. Call it on every render tick.
func (c *Controller) Update(motion bool, now time.Time) {
	if motion != c.rawMotion {
		c.rawMotion = motion
		c.rawSince = now
	}
	if c.rawMotion && now.Sub(c.rawSince) >= c.cfg.Debounce {
		c.registerMotion(now)
	}
	c.advance(now)
}

// Trigger injects a synthetic motion edge that bypasses debounce. Used
// for manual keyboard triggers. A true edge counts as activity; a false
// edge expires the inactivity timeout immediately.
func (c *Controller) Trigger(motion bool, now time.Time) {
	if motion {
		c.registerMotion(now)
	} else {
		c.lastMotion = now.Add(-c.cfg.Timeout)
	}
	c.advance(now)
}

// Opacity returns the opacity at the time of the last Update or
// Trigger, in [0, 1].
func (c *Controller) Opacity() float64 {
	switch c.state {
	case StateVisible:
		return 1
	case StateHidden:
		return 0
	case StateFadingOut:
		return clamp(1 - c.fadeProgress(c.cfg.FadeOut))
	case StateFadingIn:
		return clamp(c.fadeProgress(c.cfg.FadeIn))
	}
	return 1
}

// registerMotion records debounced activity and wakes the video if it
// is hidden or on its way out.
func (c *Controller) registerMotion(now time.Time) {
	c.lastMotion = now
	switch c.state {
	case StateHidden:
		c.state = StateFadingIn
		c.fadeStart = now
	case StateFadingOut:
		// Reverse without an opacity jump: back-date the fade-in so it
		// starts at the opacity the fade-out had reached.
		o := clamp(1 - c.progressAt(now, c.cfg.FadeOut))
		c.state = StateFadingIn
		c.fadeStart = now.Add(-time.Duration(o * float64(c.cfg.FadeIn)))
	}
}

func (c *Controller) advance(now time.Time) {
	c.now = now
	if c.state == StateVisible && now.Sub(c.lastMotion) >= c.cfg.Timeout {
		c.state = StateFadingOut
		c.fadeStart = now
	}
	switch c.state {
	case StateFadingOut:
		if c.progressAt(now, c.cfg.FadeOut) >= 1 {
			c.state = StateHidden
		}
	case StateFadingIn:
		if c.progressAt(now, c.cfg.FadeIn) >= 1 {
			c.state = StateVisible
			// The inactivity timeout counts from full visibility, not
			// from the motion that started the fade-in.
			c.lastMotion = now
		}
	}
}

func (c *Controller) progressAt(now time.Time, ramp time.Duration) float64 {
	if ramp <= 0 {
		return 1
	}
	return float64(now.Sub(c.fadeStart)) / float64(ramp)
}

func (c *Controller) fadeProgress(ramp time.Duration) float64 {
	return c.progressAt(c.now, ramp)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
