//go:build tinygo

// Package bitbang clocks multi-lane wire buffers out over plain GPIOs.
// Slow but it runs on any TinyGo target and the data pins need not be
// consecutive. Useful as a fallback where no PIO or wide peripheral
// exists.
package bitbang

import (
	"device"
	"machine"
	"time"

	"ledspi/spi"
)

// Transmitter bit-bangs width data pins plus a shared clock. Transfers
// are synchronous; TransmitAsync returns after the last clock edge.
type Transmitter struct {
	width int
	name  string

	// Delay is the number of nop spins after each clock edge. Zero
	// runs at full CPU speed.
	Delay uint32

	clock       machine.Pin
	data        [spi.MaxLanes]machine.Pin
	idleHigh    bool
	arena       spi.DMAArena
	initialized bool
}

// NewTransmitter creates a bit-banged transmitter for any width 1-8.
func NewTransmitter(width int, name string) *Transmitter {
	return &Transmitter{width: width, name: name}
}

func (t *Transmitter) Begin(cfg spi.Config) error {
	if t.initialized {
		return nil
	}
	if cfg.ClockPin == spi.NoPin || cfg.DataPins[0] == spi.NoPin {
		return spi.ErrBadPins
	}
	t.idleHigh = cfg.Mode&0x2 != 0

	outCfg := machine.PinConfig{Mode: machine.PinOutput}
	t.clock = machine.Pin(cfg.ClockPin)
	t.clock.Configure(outCfg)
	t.clock.Set(t.idleHigh)
	for i := 0; i < t.width; i++ {
		pin := cfg.DataPins[i]
		if pin == spi.NoPin {
			t.data[i] = machine.NoPin
			continue
		}
		t.data[i] = machine.Pin(pin)
		t.data[i].Configure(outCfg)
		t.data[i].Low()
	}
	t.initialized = true
	return nil
}

func (t *Transmitter) End() {
	t.arena.Release()
	t.initialized = false
}

func (t *Transmitter) TransmitAsync(buf []byte) error {
	if !t.initialized {
		return spi.ErrNotInitialized
	}
	if len(buf) == 0 {
		return nil
	}
	frame := t.arena.Acquire(len(buf))
	copy(frame, buf)

	g := 8 / t.width
	for _, b := range frame {
		for c := 0; c < g; c++ {
			for lane := 0; lane < t.width; lane++ {
				if t.data[lane] == machine.NoPin {
					continue
				}
				t.data[lane].Set((b>>uint(lane*g+g-1-c))&1 != 0)
			}
			t.clock.Set(!t.idleHigh)
			t.delay()
			t.clock.Set(t.idleHigh)
			t.delay()
		}
	}
	return nil
}

func (t *Transmitter) delay() {
	for i := uint32(0); i < t.Delay; i++ {
		device.Asm("nop")
	}
}

func (t *Transmitter) WaitComplete(timeout time.Duration) bool { return true }
func (t *Transmitter) IsBusy() bool                            { return false }
func (t *Transmitter) IsInitialized() bool                     { return t.initialized }
func (t *Transmitter) Lanes() int                              { return t.width }
func (t *Transmitter) BusID() int                              { return -1 }
func (t *Transmitter) Name() string                            { return t.name }
