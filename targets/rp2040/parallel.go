//go:build rp2040

// Package rp2040 provides multi-lane transmitters backed by the RP2040
// PIO blocks. A two-instruction program shifts width bits out of the
// OSR onto consecutive data pins while side-setting the shared clock,
// so 2, 4 or 8 strips run from one state machine.
package rp2040

import (
	"machine"
	"runtime"
	"sync/atomic"
	"time"

	pio "github.com/tinygo-org/pio/rp2-pio"

	"ledspi/spi"
)

// maxClockHz caps the SPI clock. Above this the PIO output stops
// meeting setup times on typical strip wiring.
const maxClockHz = 25_000_000

// ParallelPIO drives width consecutive GPIO data pins plus a side-set
// clock pin from one PIO state machine.
type ParallelPIO struct {
	width int
	busID int
	name  string

	sm      pio.StateMachine
	offset  uint8
	progLen uint8

	words []uint32 // grow-only packed transfer buffer

	busy        uint32 // atomic
	done        chan struct{}
	initialized bool
}

// NewParallelPIO creates an unclaimed transmitter for the given lane
// width (2, 4 or 8). Hardware is claimed in Begin.
func NewParallelPIO(width, busID int, name string) *ParallelPIO {
	return &ParallelPIO{width: width, busID: busID, name: name}
}

func (p *ParallelPIO) Begin(cfg spi.Config) error {
	if p.initialized {
		return nil
	}
	if int(cfg.BusNum) != p.busID {
		return spi.ErrBusMismatch
	}
	if cfg.ClockPin == spi.NoPin || cfg.DataPins[0] == spi.NoPin {
		return spi.ErrBadPins
	}
	// The PIO out instruction drives consecutive GPIOs; every assigned
	// data pin must sit at base+lane.
	base := cfg.DataPins[0]
	for i := 1; i < p.width; i++ {
		if pin := cfg.DataPins[i]; pin != spi.NoPin && pin != base+spi.Pin(i) {
			return spi.ErrBadPins
		}
	}

	speed := cfg.ClockSpeedHz
	if speed == 0 || speed == spi.SpeedMax || speed > maxClockHz {
		speed = maxClockHz
	}
	// Two PIO cycles per clock period.
	whole, frac, err := pio.ClkDivFromFrequency(speed*2, machine.CPUFrequency())
	if err != nil {
		return err
	}

	sm, err := pio.PIO0.ClaimStateMachine()
	if err != nil {
		sm, err = pio.PIO1.ClaimStateMachine()
		if err != nil {
			return err
		}
	}
	Pio := sm.PIO()

	// Clock idles at CPOL; data changes on the leading edge's opposite
	// phase so receivers sampling mode 0/3 see stable bits.
	idle, active := uint8(0), uint8(1)
	if cfg.Mode&0x2 != 0 {
		idle, active = 1, 0
	}
	program := []uint16{
		pio.EncodeOut(pio.SrcDestPins, uint8(p.width)) | pio.EncodeSideSet(1, idle),
		pio.EncodeNOP() | pio.EncodeSideSet(1, active),
	}
	offset, err := Pio.AddProgram(program, -1)
	if err != nil {
		sm.Unclaim()
		return err
	}

	clock := machine.Pin(cfg.ClockPin)
	pinCfg := machine.PinConfig{Mode: Pio.PinMode()}
	clock.Configure(pinCfg)
	for i := 0; i < p.width; i++ {
		if cfg.DataPins[i] != spi.NoPin {
			machine.Pin(cfg.DataPins[i]).Configure(pinCfg)
		}
	}
	sm.SetPindirsConsecutive(clock, 1, true)
	sm.SetPindirsConsecutive(machine.Pin(base), uint8(p.width), true)

	smCfg := pio.DefaultStateMachineConfig()
	smCfg.SetWrap(offset, offset+uint8(len(program))-1)
	smCfg.SetSidesetParams(1, false, false)
	smCfg.SetOutPins(machine.Pin(base), uint8(p.width))
	smCfg.SetSidesetPins(clock)
	smCfg.SetOutShift(true, true, 32)
	smCfg.SetFIFOJoin(pio.FifoJoinTx)
	smCfg.SetClkDivIntFrac(whole, frac)

	sm.Init(offset, smCfg)
	sm.SetEnabled(true)

	p.sm = sm
	p.offset = offset
	p.progLen = uint8(len(program))
	p.initialized = true
	return nil
}

func (p *ParallelPIO) End() {
	if !p.initialized {
		return
	}
	p.WaitComplete(spi.WaitForever)
	p.sm.SetEnabled(false)
	p.sm.ClearFIFOs()
	p.sm.PIO().ClearProgramSection(p.offset, p.progLen)
	p.sm.Unclaim()
	p.words = nil
	p.initialized = false
}

// TransmitAsync repacks the interleaved buffer into FIFO words and
// feeds the state machine from a goroutine, so rendering continues
// while the transfer clocks out.
func (p *ParallelPIO) TransmitAsync(buf []byte) error {
	if !p.initialized {
		return spi.ErrNotInitialized
	}
	p.WaitComplete(spi.WaitForever)
	if len(buf) == 0 {
		return nil
	}

	words := p.packWords(buf)
	done := make(chan struct{})
	p.done = done
	atomic.StoreUint32(&p.busy, 1)

	go func() {
		for _, w := range words {
			for p.sm.IsTxFIFOFull() {
				runtime.Gosched()
			}
			p.sm.TxPut(w)
		}
		for !p.sm.IsTxFIFOEmpty() {
			runtime.Gosched()
		}
		atomic.StoreUint32(&p.busy, 0)
		close(done)
	}()
	return nil
}

func (p *ParallelPIO) WaitComplete(timeout time.Duration) bool {
	if atomic.LoadUint32(&p.busy) == 0 {
		return true
	}
	if timeout < 0 {
		<-p.done
		return true
	}
	select {
	case <-p.done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (p *ParallelPIO) IsBusy() bool        { return atomic.LoadUint32(&p.busy) != 0 }
func (p *ParallelPIO) IsInitialized() bool { return p.initialized }
func (p *ParallelPIO) Lanes() int          { return p.width }
func (p *ParallelPIO) BusID() int          { return p.busID }
func (p *ParallelPIO) Name() string        { return p.name }

// packWords converts interleaved wire bytes to 32-bit FIFO words. The
// OSR shifts right, so the earliest clock cycle must occupy the least
// significant width bits of each word. One wire byte carries g = 8/width
// cycles; within it, lane l's bit for cycle c sits at position
// l*g + (g-1-c).
func (p *ParallelPIO) packWords(data []byte) []uint32 {
	nw := (len(data) + 3) / 4
	if cap(p.words) < nw {
		p.words = make([]uint32, nw)
	}
	words := p.words[:cap(p.words)][:nw]
	for i := range words {
		words[i] = 0
	}

	g := 8 / p.width
	cycle := 0
	for _, b := range data {
		for c := 0; c < g; c++ {
			var grp uint32
			for lane := 0; lane < p.width; lane++ {
				grp |= uint32((b>>uint(lane*g+g-1-c))&1) << uint(lane)
			}
			off := cycle * p.width
			words[off/32] |= grp << uint(off%32)
			cycle++
		}
	}
	return words
}
