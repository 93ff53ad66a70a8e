//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealReader reads the PIR sensor from actual hardware using the Linux
// GPIO character device.
type RealReader struct {
	chip *gpiocdev.Chip
	pin  *gpiocdev.Line
}

// NewRealReader creates a GPIO reader for actual Raspberry Pi hardware.
func NewRealReader(pin int) (*RealReader, error) {
	chip, err := gpiocdev.NewChip("gpiochip0")
	if err != nil {
		return nil, fmt.Errorf("open gpio chip: %w", err)
	}

	// PIR modules drive the output actively, so no pull is needed, but a
	// pull-down keeps the pin defined while the module warms up.
	line, err := chip.RequestLine(pin, gpiocdev.AsInput, gpiocdev.WithPullDown)
	if err != nil {
		chip.Close()
		return nil, fmt.Errorf("request PIR pin %d: %w", pin, err)
	}

	return &RealReader{chip: chip, pin: line}, nil
}

// Read returns true while the sensor output is high. PIR modules signal
// motion with a high level; no inversion is applied.
func (r *RealReader) Read() (bool, error) {
	raw, err := r.pin.Value()
	if err != nil {
		return false, fmt.Errorf("read PIR pin: %w", err)
	}
	return raw == 1, nil
}

// Close releases GPIO resources, restoring the pin to the Pi boot default
// (input with pull-down) first.
func (r *RealReader) Close() error {
	var errs []error

	if r.pin != nil {
		if err := r.pin.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure PIR pin: %w", err))
		}
		if err := r.pin.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close PIR pin: %w", err))
		}
	}
	if r.chip != nil {
		if err := r.chip.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
