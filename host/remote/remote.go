// Package remote drives a LaneTransmitter that lives on the other end
// of a serial link: frames are encoded with the wire protocol and
// written to the port while the caller keeps rendering.
package remote

import (
	"sync"
	"time"

	"ledspi/host/serial"
	"ledspi/protocol"
	"ledspi/spi"
)

// Transmitter streams interleaved wire buffers over a serial.Port. It
// satisfies spi.LaneTransmitter so a MultiLaneDevice can target remote
// hardware the same way it targets a local peripheral.
//
// Writes happen on a background goroutine; a write error surfaces on
// the next TransmitAsync call.
type Transmitter struct {
	port  serial.Port
	lanes int
	name  string

	mu          sync.Mutex
	scratch     []byte
	seq         uint8
	busy        bool
	done        chan struct{}
	lastErr     error
	initialized bool
}

// NewTransmitter wraps an open port as a lane transmitter of the given
// width.
func NewTransmitter(port serial.Port, lanes int, name string) *Transmitter {
	return &Transmitter{port: port, lanes: lanes, name: name}
}

func (t *Transmitter) Begin(cfg spi.Config) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.initialized {
		return nil
	}
	if t.port == nil {
		return serial.ErrNoPort
	}
	t.initialized = true
	return nil
}

// End drains any in-flight write and drops the scratch buffer. The
// port stays open; the caller owns it.
func (t *Transmitter) End() {
	t.WaitComplete(spi.WaitForever)
	t.mu.Lock()
	t.scratch = nil
	t.lastErr = nil
	t.initialized = false
	t.mu.Unlock()
}

func (t *Transmitter) TransmitAsync(buf []byte) error {
	t.waitDone(spi.WaitForever)

	t.mu.Lock()
	if !t.initialized {
		t.mu.Unlock()
		return spi.ErrNotInitialized
	}
	if err := t.lastErr; err != nil {
		t.lastErr = nil
		t.mu.Unlock()
		return err
	}
	if len(buf) == 0 {
		t.mu.Unlock()
		return nil
	}

	frame := protocol.AppendFrame(t.scratch[:0], protocol.Frame{
		Lanes:   uint8(t.lanes),
		Seq:     t.seq,
		Payload: buf,
	})
	t.scratch = frame
	t.seq++

	done := make(chan struct{})
	t.busy = true
	t.done = done
	t.mu.Unlock()

	go func() {
		_, err := t.port.Write(frame)
		if err == nil {
			err = t.port.Flush()
		}
		t.mu.Lock()
		t.lastErr = err
		t.busy = false
		t.mu.Unlock()
		close(done)
	}()
	return nil
}

func (t *Transmitter) WaitComplete(timeout time.Duration) bool {
	return t.waitDone(timeout)
}

func (t *Transmitter) waitDone(timeout time.Duration) bool {
	t.mu.Lock()
	done := t.done
	busy := t.busy
	t.mu.Unlock()
	if !busy || done == nil {
		return true
	}
	if timeout < 0 {
		<-done
		return true
	}
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (t *Transmitter) IsBusy() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.busy
}

func (t *Transmitter) IsInitialized() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.initialized
}

func (t *Transmitter) Lanes() int   { return t.lanes }
func (t *Transmitter) BusID() int   { return -1 }
func (t *Transmitter) Name() string { return t.name }
