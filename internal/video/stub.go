//go:build !linux || !cgo

package video

import (
	"context"
	"errors"
)

// GstSurface is a placeholder so non-Linux builds compile.
type GstSurface struct{}

// NewSurface is only implemented on Linux, where GStreamer and a
// display are available.
func NewSurface(path string, width, height int) (*GstSurface, error) {
	return nil, errors.New("video playback requires linux")
}

func (s *GstSurface) Play() error                   { return errors.New("not supported") }
func (s *GstSurface) Pause() error                  { return errors.New("not supported") }
func (s *GstSurface) SetOpacity(o float64) error    { return errors.New("not supported") }
func (s *GstSurface) Run(ctx context.Context) error { return errors.New("not supported") }
func (s *GstSurface) Close() error                  { return nil }
