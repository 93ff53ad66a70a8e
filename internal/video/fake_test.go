package video

import (
	"context"
	"testing"
	"time"
)

func TestFakeSurfaceRecordsOpacity(t *testing.T) {
	f := NewFakeSurface()

	var s Surface = f // interface conformance
	s.SetOpacity(1)
	s.SetOpacity(0.5)
	s.SetOpacity(0)

	if len(f.Opacities) != 3 {
		t.Fatalf("expected 3 recorded opacities, got %d", len(f.Opacities))
	}
	if f.LastOpacity() != 0 {
		t.Errorf("LastOpacity = %v, want 0", f.LastOpacity())
	}
}

func TestFakeSurfacePlayPause(t *testing.T) {
	f := NewFakeSurface()

	f.Play()
	if !f.Playing {
		t.Error("expected Playing after Play")
	}
	f.Pause()
	if f.Playing {
		t.Error("expected not Playing after Pause")
	}
	f.Close()
	if !f.Closed {
		t.Error("expected Closed after Close")
	}
}

func TestFakeSurfaceRunStopsOnCancel(t *testing.T) {
	f := NewFakeSurface()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		f.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
