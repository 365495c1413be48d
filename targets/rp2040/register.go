//go:build rp2040

package rp2040

import "ledspi/spi"

// Two instances per width: the RP2040 has two PIO blocks, each able to
// host one shifter program alongside other users. Instances are only
// claimed when a device begins, so unused widths cost nothing.
func init() {
	spi.RegisterTransmitterFactory(2, func() []spi.LaneTransmitter {
		return []spi.LaneTransmitter{
			NewParallelPIO(2, 0, "pio-dual0"),
			NewParallelPIO(2, 1, "pio-dual1"),
		}
	})
	spi.RegisterTransmitterFactory(4, func() []spi.LaneTransmitter {
		return []spi.LaneTransmitter{
			NewParallelPIO(4, 0, "pio-quad0"),
			NewParallelPIO(4, 1, "pio-quad1"),
		}
	})
	spi.RegisterTransmitterFactory(8, func() []spi.LaneTransmitter {
		return []spi.LaneTransmitter{
			NewParallelPIO(8, 0, "pio-octal0"),
			NewParallelPIO(8, 1, "pio-octal1"),
		}
	})
}
