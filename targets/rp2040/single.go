//go:build rp2040

package rp2040

import (
	"machine"

	"ledspi/spi"
)

// Native SPI controllers for single-strip output. The PIO shifters
// above handle 2+ lanes; one strip is cheaper on the dedicated
// peripheral.
type spiBus struct {
	spi  *machine.SPI
	sck  machine.Pin
	sdo  machine.Pin
	name string
}

var spiBuses = [2]spiBus{
	{spi: machine.SPI0, sck: machine.GPIO2, sdo: machine.GPIO3, name: "spi0"},
	{spi: machine.SPI1, sck: machine.GPIO10, sdo: machine.GPIO11, name: "spi1"},
}

// hwSingle wraps a native SPI controller, configuring it on Begin.
type hwSingle struct {
	spi.SingleSPI
	bus spiBus
}

func newHWSingle(busID int) *hwSingle {
	bus := spiBuses[busID]
	h := &hwSingle{bus: bus}
	h.SingleSPI = *spi.NewSingleSPI(bus.spi, busID, bus.name)
	return h
}

func (h *hwSingle) Begin(cfg spi.Config) error {
	if h.IsInitialized() {
		return nil
	}
	speed := cfg.ClockSpeedHz
	if speed == 0 || speed == spi.SpeedMax || speed > maxClockHz {
		speed = maxClockHz
	}
	err := h.bus.spi.Configure(machine.SPIConfig{
		Frequency: speed,
		SCK:       h.bus.sck,
		SDO:       h.bus.sdo,
		Mode:      uint8(cfg.Mode),
	})
	if err != nil {
		return err
	}
	return h.SingleSPI.Begin(cfg)
}

func init() {
	spi.RegisterTransmitterFactory(1, func() []spi.LaneTransmitter {
		return []spi.LaneTransmitter{newHWSingle(0), newHWSingle(1)}
	})
}
