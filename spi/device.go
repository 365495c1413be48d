package spi

import (
	"errors"
	"time"
)

var (
	ErrLaneCount    = errors.New("spi: lane count must be between 1 and 8")
	ErrNoData       = errors.New("spi: no lane data to transmit")
	ErrTooManySpans = errors.New("spi: more spans than configured lanes")
)

// defaultPaddingFrame pads short lanes with zero bytes unless the caller
// configures a chipset-specific frame.
var defaultPaddingFrame = []byte{0x00}

// DeviceConfig configures a MultiLaneDevice. Pins are fixed at
// construction; the backend is selected once, in Begin, from the number
// of data pins.
type DeviceConfig struct {
	ClockPin     Pin
	DataPins     []Pin  // 1-8 data pins, one per strip
	ClockSpeedHz uint32 // 0 or SpeedMax = fastest achievable
	Mode         Mode

	// PaddingFrame is the default padding pattern for all lanes.
	// Zero byte when nil. Lane handles can override per lane.
	PaddingFrame []byte

	// Transmitter, when set, bypasses the registry and drives this
	// backend directly. Used for stubs and custom hardware.
	Transmitter LaneTransmitter
}

// MultiLaneDevice manages 1-8 independent data streams that are
// transposed and transmitted in parallel over one LaneTransmitter.
//
// Usage: write each lane, then Flush to transpose and start the
// hardware transfer. Flush clears the lane buffers once transmission
// has started, so wait for completion before writing the next frame
// (Write does the wait-write-flush sequence in one call).
type MultiLaneDevice struct {
	cfg     DeviceConfig
	lanes   [][]byte
	padding [][]byte // per-lane override, nil = DeviceConfig.PaddingFrame

	hw    LaneTransmitter
	width int
	frame DMAArena

	initialized bool
}

// NewMultiLaneDevice creates the device. Hardware is untouched until
// Begin.
func NewMultiLaneDevice(cfg DeviceConfig) *MultiLaneDevice {
	if len(cfg.DataPins) < 1 || len(cfg.DataPins) > MaxLanes {
		Warnln("spi: multi-lane device configured with " + itoa(len(cfg.DataPins)) + " data pins, must be 1-8")
	}
	return &MultiLaneDevice{
		cfg:     cfg,
		lanes:   make([][]byte, len(cfg.DataPins)),
		padding: make([][]byte, len(cfg.DataPins)),
	}
}

// Begin selects and initializes the hardware backend: 1 lane uses a
// single-SPI transmitter, 2 a dual, 3-4 a quad and 5-8 an octal one,
// with unused lanes idle. Idempotent.
func (d *MultiLaneDevice) Begin() error {
	if d.initialized {
		return nil
	}
	n := len(d.cfg.DataPins)
	if n < 1 || n > MaxLanes {
		return ErrLaneCount
	}

	width := backendWidth(n)
	hw := d.cfg.Transmitter
	if hw == nil {
		hw = claimTransmitter(width)
		if hw == nil {
			Warnln("spi: no free " + itoa(width) + "-lane transmitter")
			return ErrNoTransmitter
		}
	} else {
		width = hw.Lanes()
		if width < n {
			return ErrLaneCount
		}
	}

	cfg := DefaultConfig()
	cfg.ClockPin = d.cfg.ClockPin
	cfg.ClockSpeedHz = d.cfg.ClockSpeedHz
	cfg.Mode = d.cfg.Mode
	if id := hw.BusID(); id >= 0 {
		cfg.BusNum = uint8(id)
	}
	for i, p := range d.cfg.DataPins {
		cfg.DataPins[i] = p
	}

	if err := hw.Begin(cfg); err != nil {
		Warnln("spi: backend " + hw.Name() + " failed to initialize")
		return err
	}

	d.hw = hw
	d.width = width
	d.initialized = true
	return nil
}

// End waits for any pending transmission, releases the backend and
// clears all lane buffers. Safe to call when never begun.
func (d *MultiLaneDevice) End() {
	if !d.initialized {
		return
	}
	d.hw.WaitComplete(WaitForever)
	d.hw.End()
	for i := range d.lanes {
		d.lanes[i] = nil
	}
	d.frame.Release()
	d.hw = nil
	d.initialized = false
}

// IsReady reports whether Begin has succeeded.
func (d *MultiLaneDevice) IsReady() bool {
	return d.initialized
}

// NumLanes returns the number of configured data pins.
func (d *MultiLaneDevice) NumLanes() int {
	return len(d.lanes)
}

// Lane returns a handle bound to one lane's write buffer. An invalid
// index is a programmer error and panics.
func (d *MultiLaneDevice) Lane(id int) *Lane {
	if id < 0 || id >= len(d.lanes) {
		panic("spi: invalid lane index " + itoa(id))
	}
	return &Lane{dev: d, id: id}
}

// Lane is a handle to one lane of a MultiLaneDevice.
type Lane struct {
	dev *MultiLaneDevice
	id  int
}

// Write appends data to the lane's buffer for the next flush.
func (l *Lane) Write(data []byte) {
	buf := l.dev.lanes[l.id]
	l.dev.lanes[l.id] = append(buf, data...)
}

// SetPadding overrides the padding frame for this lane only.
func (l *Lane) SetPadding(frame []byte) {
	l.dev.padding[l.id] = frame
}

// Clear discards any buffered data.
func (l *Lane) Clear() {
	l.dev.lanes[l.id] = l.dev.lanes[l.id][:0]
}

// Len returns the number of buffered bytes.
func (l *Lane) Len() int {
	return len(l.dev.lanes[l.id])
}

// Flush transposes all lane buffers and starts the hardware transfer.
// Lane buffers are cleared once transmission has started, not when it
// completes; the returned Transaction tracks completion. On transpose
// failure the hardware is untouched.
func (d *MultiLaneDevice) Flush() (*Transaction, error) {
	if !d.initialized {
		return nil, ErrNotInitialized
	}

	maxLen := 0
	for _, lane := range d.lanes {
		if len(lane) > maxLen {
			maxLen = len(lane)
		}
	}
	if maxLen == 0 {
		Warnln("spi: flush with all lanes empty")
		return nil, ErrNoData
	}

	out := d.frame.Acquire(maxLen * d.width)
	if d.width == 1 {
		copy(out, d.lanes[0])
	} else if err := d.transposeInto(out); err != nil {
		Warnln("spi: transpose failed")
		return nil, err
	}

	if err := d.hw.TransmitAsync(out); err != nil {
		Warnln("spi: transmit failed on " + d.hw.Name())
		return nil, err
	}

	for i := range d.lanes {
		d.lanes[i] = d.lanes[i][:0]
	}
	return &Transaction{hw: d.hw}, nil
}

func (d *MultiLaneDevice) transposeInto(out []byte) error {
	var slotData [MaxLanes]LaneData
	var slots [MaxLanes]*LaneData
	for i := range d.lanes {
		slotData[i] = LaneData{Payload: d.lanes[i], Padding: d.paddingFor(i)}
		slots[i] = &slotData[i]
	}
	switch d.width {
	case 2:
		return Transpose2(slots[0], slots[1], out)
	case 4:
		return Transpose4(slots[0], slots[1], slots[2], slots[3], out)
	default:
		var l8 [8]*LaneData
		copy(l8[:], slots[:])
		return Transpose8(&l8, out)
	}
}

func (d *MultiLaneDevice) paddingFor(lane int) []byte {
	if p := d.padding[lane]; p != nil {
		return p
	}
	if d.cfg.PaddingFrame != nil {
		return d.cfg.PaddingFrame
	}
	return defaultPaddingFrame
}

// Write atomically waits for any prior transmission, replaces the lane
// buffers with the given spans and flushes. Spans beyond the configured
// lane count are an error; omitted trailing lanes transmit empty.
func (d *MultiLaneDevice) Write(lanes ...[]byte) error {
	if !d.initialized {
		return ErrNotInitialized
	}
	if len(lanes) > len(d.lanes) {
		return ErrTooManySpans
	}
	d.hw.WaitComplete(WaitForever)
	for i, span := range lanes {
		d.lanes[i] = append(d.lanes[i][:0], span...)
	}
	for i := len(lanes); i < len(d.lanes); i++ {
		d.lanes[i] = d.lanes[i][:0]
	}
	_, err := d.Flush()
	return err
}

// Wait blocks until the pending transmission completes.
func (d *MultiLaneDevice) Wait() bool {
	return d.WaitComplete(WaitForever)
}

// WaitComplete blocks until the pending transmission completes or the
// timeout elapses.
func (d *MultiLaneDevice) WaitComplete(timeout time.Duration) bool {
	if !d.initialized {
		return false
	}
	return d.hw.WaitComplete(timeout)
}

// IsBusy reports whether a transmission is in flight.
func (d *MultiLaneDevice) IsBusy() bool {
	return d.initialized && d.hw.IsBusy()
}

// Transaction tracks one started transmission.
type Transaction struct {
	hw LaneTransmitter
}

// Wait blocks until the transmission completes.
func (t *Transaction) Wait() bool {
	return t.hw.WaitComplete(WaitForever)
}

// WaitTimeout blocks until the transmission completes or the timeout
// elapses; false means the transfer may still be in flight.
func (t *Transaction) WaitTimeout(timeout time.Duration) bool {
	return t.hw.WaitComplete(timeout)
}

// Busy reports whether the transmission is still in flight.
func (t *Transaction) Busy() bool {
	return t.hw.IsBusy()
}

// backendWidth maps a configured lane count to the narrowest backend
// that can carry it.
func backendWidth(n int) int {
	switch {
	case n == 1:
		return 1
	case n == 2:
		return 2
	case n <= 4:
		return 4
	default:
		return 8
	}
}
