package video

import "context"

// FakeSurface records playback calls for test assertions.
type FakeSurface struct {
	// Opacities contains every value passed to SetOpacity, in order.
	Opacities []float64

	// Playing tracks the Play/Pause state.
	Playing bool

	// Closed tracks if Close was called.
	Closed bool

	// SetOpacityError, if set, will be returned by SetOpacity.
	SetOpacityError error
}

// NewFakeSurface creates a FakeSurface for testing.
func NewFakeSurface() *FakeSurface {
	return &FakeSurface{}
}

func (f *FakeSurface) Play() error {
	f.Playing = true
	return nil
}

func (f *FakeSurface) Pause() error {
	f.Playing = false
	return nil
}

func (f *FakeSurface) SetOpacity(opacity float64) error {
	if f.SetOpacityError != nil {
		return f.SetOpacityError
	}
	f.Opacities = append(f.Opacities, opacity)
	return nil
}

// Run blocks until ctx is canceled.
func (f *FakeSurface) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}

func (f *FakeSurface) Close() error {
	f.Closed = true
	return nil
}

// LastOpacity returns the most recent opacity, or 1 if none was set.
func (f *FakeSurface) LastOpacity() float64 {
	if len(f.Opacities) == 0 {
		return 1
	}
	return f.Opacities[len(f.Opacities)-1]
}
