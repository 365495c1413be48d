package spi

import "time"

// StubTransmitter is an in-memory LaneTransmitter for tests and host
// builds without hardware. It records every transmitted frame and lets
// tests inject failures and busy conditions.
type StubTransmitter struct {
	lanes int
	busID int
	name  string

	initialized bool
	busy        bool
	arena       DMAArena

	// LastFrame holds a copy of the most recent frame.
	LastFrame []byte
	// FrameCount is the number of successful TransmitAsync calls.
	FrameCount int
	// TransmitErr, when set, is returned by the next TransmitAsync
	// and cleared; the transmitter state is untouched.
	TransmitErr error
	// HoldBusy keeps timed waits failing until Complete is called.
	HoldBusy bool
	// Allocs counts Begin calls that actually initialized hardware.
	Allocs int
}

// NewStubTransmitter creates a stub reporting the given lane count and
// bus id.
func NewStubTransmitter(lanes, busID int, name string) *StubTransmitter {
	return &StubTransmitter{lanes: lanes, busID: busID, name: name}
}

func (s *StubTransmitter) Begin(cfg Config) error {
	if s.initialized {
		return nil
	}
	if int(cfg.BusNum) != s.busID {
		return ErrBusMismatch
	}
	if cfg.ClockPin == NoPin || cfg.DataPins[0] == NoPin {
		return ErrBadPins
	}
	s.initialized = true
	s.Allocs++
	return nil
}

func (s *StubTransmitter) End() {
	s.WaitComplete(WaitForever)
	s.arena.Release()
	s.initialized = false
}

func (s *StubTransmitter) TransmitAsync(data []byte) error {
	if !s.initialized {
		return ErrNotInitialized
	}
	s.WaitComplete(WaitForever)
	if err := s.TransmitErr; err != nil {
		s.TransmitErr = nil
		return err
	}
	buf := s.arena.Acquire(len(data))
	copy(buf, data)
	s.LastFrame = buf
	s.FrameCount++
	if len(data) > 0 {
		s.busy = true
	}
	return nil
}

func (s *StubTransmitter) WaitComplete(timeout time.Duration) bool {
	if !s.busy {
		return true
	}
	if timeout < 0 {
		s.busy = false
		return true
	}
	if s.HoldBusy {
		return false
	}
	s.busy = false
	return true
}

// Complete marks the in-flight transfer finished, releasing HoldBusy.
func (s *StubTransmitter) Complete() {
	s.busy = false
}

func (s *StubTransmitter) IsBusy() bool        { return s.busy }
func (s *StubTransmitter) IsInitialized() bool { return s.initialized }
func (s *StubTransmitter) Lanes() int          { return s.lanes }
func (s *StubTransmitter) BusID() int          { return s.busID }
func (s *StubTransmitter) Name() string        { return s.name }
