// Package gpio provides PIR sensor input reading with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Reader reads the PIR sensor state.
type Reader interface {
	// Read returns true while the sensor output is high (motion present).
	Read() (bool, error)

	// Close releases GPIO resources.
	Close() error
}
