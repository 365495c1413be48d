package serial

import (
	"errors"
	"io"
)

// ErrNoPort reports an operation on a nil port.
var ErrNoPort = errors.New("serial: no port")

// Port is the byte link a remote transmitter streams frames over.
// Implementations: a native serial device (github.com/tarm/serial) and
// in-memory mocks for tests.
type Port interface {
	io.ReadWriteCloser

	// Flush pushes any buffered data to the device.
	Flush() error
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (USB CDC devices ignore this)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns a configuration suitable for a USB CDC link.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        250000,
		ReadTimeout: 100,
	}
}
