// Package video plays the looping video asset and exposes opacity
// control for the fade controller.
package video

import "context"

// Surface abstracts video playback so the render loop can be tested
// without a display.
type Surface interface {
	// Play starts (or resumes) playback.
	Play() error

	// Pause freezes playback on the current frame.
	Pause() error

	// SetOpacity sets the video opacity in [0, 1]. 0 is fully black.
	SetOpacity(opacity float64) error

	// Run processes playback events (loop on end-of-stream, pipeline
	// errors) until ctx is canceled.
	Run(ctx context.Context) error

	// Close releases the playback resources.
	Close() error
}
