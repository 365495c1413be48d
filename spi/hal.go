// Multi-lane SPI hardware abstraction.
// A LaneTransmitter clocks a pre-interleaved wire buffer out over 1, 2, 4
// or 8 parallel data pins sharing one clock. Platform packages register
// their transmitters in the factory table; the core never talks to
// hardware directly.
package spi

import (
	"errors"
	"time"
)

// MaxLanes is the widest transmitter the device layer drives.
const MaxLanes = 8

// Pin identifies a platform GPIO number. NoPin marks an unused slot.
type Pin int8

const NoPin Pin = -1

// Mode represents SPI clock polarity and phase (0-3)
// Mode 0: CPOL=0, CPHA=0 (clock idle low, sample on rising edge)
// Mode 1: CPOL=0, CPHA=1 (clock idle low, sample on falling edge)
// Mode 2: CPOL=1, CPHA=0 (clock idle high, sample on falling edge)
// Mode 3: CPOL=1, CPHA=1 (clock idle high, sample on rising edge)
type Mode uint8

// SpeedMax requests the fastest clock the backend can produce. A zero
// ClockSpeedHz means the same thing.
const SpeedMax uint32 = 0xffffffff

// WaitForever makes WaitComplete block until the transfer finishes.
const WaitForever time.Duration = -1

var (
	ErrNotInitialized = errors.New("spi: transmitter not initialized")
	ErrBusMismatch    = errors.New("spi: bus id mismatch")
	ErrBadPins        = errors.New("spi: invalid pin configuration")
	ErrNoTransmitter  = errors.New("spi: no transmitter available for lane count")
)

// Config holds the configuration for a lane transmitter bus.
type Config struct {
	BusNum          uint8         // Logical bus identifier, platform-numbered
	ClockSpeedHz    uint32        // Requested clock in Hz; 0 or SpeedMax = fastest achievable
	ClockPin        Pin           // Shared clock (SCK)
	DataPins        [MaxLanes]Pin // Data pins D0..D7; unused entries are NoPin
	Mode            Mode          // Clock polarity/phase
	MaxTransferSize int           // Largest single transfer in bytes; 0 = backend default
}

// DefaultConfig returns a Config with all pins unset.
func DefaultConfig() Config {
	cfg := Config{ClockPin: NoPin, ClockSpeedHz: SpeedMax}
	for i := range cfg.DataPins {
		cfg.DataPins[i] = NoPin
	}
	return cfg
}

// ActiveLanes returns the number of data pins actually assigned.
func (c *Config) ActiveLanes() int {
	n := 0
	for _, p := range c.DataPins {
		if p != NoPin {
			n++
		}
	}
	return n
}

// LaneTransmitter is the abstract contract every hardware backend
// implements: native quad/octal peripherals, PIO soft peripherals,
// bit-banged GPIO and test stubs.
//
// Lifecycle: Begin moves the transmitter from uninitialized to ready,
// TransmitAsync from ready to transmitting, WaitComplete back to ready.
// End returns to uninitialized from any state, draining a pending
// transfer first. At most one transaction is active per instance; a
// second TransmitAsync while busy first awaits the prior transfer.
type LaneTransmitter interface {
	// Begin validates the configuration and allocates hardware
	// resources. Returns an error with no side effects on any
	// validation or allocation failure. Idempotent once initialized.
	Begin(cfg Config) error

	// End blocks on any in-flight transaction, releases all resources
	// and returns to the uninitialized state. Safe to call at any time.
	End()

	// TransmitAsync copies buf into the transmitter-owned DMA region and
	// starts the transfer. An empty buf is a no-op success. The call
	// may return before or after the transfer completes depending on
	// the backend; always pair it with WaitComplete.
	TransmitAsync(buf []byte) error

	// WaitComplete blocks until the active transaction finishes or the
	// timeout elapses. WaitForever blocks indefinitely. Returns true
	// when nothing is pending.
	WaitComplete(timeout time.Duration) bool

	// IsBusy reports whether a transaction is in flight.
	IsBusy() bool

	// IsInitialized reports whether Begin has succeeded.
	IsInitialized() bool

	// Lanes returns the number of parallel data lanes (1, 2, 4 or 8).
	Lanes() int

	// BusID returns the logical bus identifier, or -1 if the
	// transmitter is not tied to a local bus.
	BusID() int

	// Name returns a human-readable identifier for diagnostics.
	Name() string
}
