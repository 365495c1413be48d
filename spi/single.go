package spi

import (
	"errors"
	"time"

	"tinygo.org/x/drivers"
)

var errNilBus = errors.New("spi: single-lane transmitter needs a bus")

// SingleSPI adapts an already-configured SPI bus into a one-lane
// LaneTransmitter. The drivers.SPI interface is synchronous, so
// TransmitAsync completes before returning and IsBusy is always false.
type SingleSPI struct {
	bus   drivers.SPI
	busID int
	name  string

	initialized bool
	arena       DMAArena
}

// NewSingleSPI wraps bus as a single-lane transmitter. The caller
// configures pins and clock speed on the bus itself.
func NewSingleSPI(bus drivers.SPI, busID int, name string) *SingleSPI {
	return &SingleSPI{bus: bus, busID: busID, name: name}
}

func (s *SingleSPI) Begin(cfg Config) error {
	if s.initialized {
		return nil
	}
	if s.bus == nil {
		return errNilBus
	}
	if int(cfg.BusNum) != s.busID {
		return ErrBusMismatch
	}
	s.initialized = true
	return nil
}

func (s *SingleSPI) End() {
	s.arena.Release()
	s.initialized = false
}

// TransmitAsync copies data into the arena and writes it out on the
// bus. The copy keeps the caller's buffer reusable immediately, same as
// the parallel backends.
func (s *SingleSPI) TransmitAsync(data []byte) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	if len(data) == 0 {
		return nil
	}
	buf := s.arena.Acquire(len(data))
	copy(buf, data)
	return s.bus.Tx(buf, nil)
}

func (s *SingleSPI) WaitComplete(timeout time.Duration) bool { return true }
func (s *SingleSPI) IsBusy() bool                            { return false }
func (s *SingleSPI) IsInitialized() bool                     { return s.initialized }
func (s *SingleSPI) Lanes() int                              { return 1 }
func (s *SingleSPI) BusID() int                              { return s.busID }
func (s *SingleSPI) Name() string                            { return s.name }
