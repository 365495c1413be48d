// ledspi-stream pushes a moving test pattern to a remote multi-lane
// transmitter over a serial link. Useful for exercising the wire
// protocol and eyeballing strip wiring without writing firmware.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"ledspi/host/remote"
	"ledspi/host/serial"
	"ledspi/spi"
)

var (
	device = flag.String("device", "/dev/ttyACM0", "Serial device path")
	baud   = flag.Int("baud", 250000, "Baud rate (ignored for USB CDC)")
	lanes  = flag.Int("lanes", 4, "Number of parallel strips (1-8)")
	count  = flag.Int("count", 60, "LEDs per strip")
	fps    = flag.Int("fps", 30, "Frames per second")
)

func main() {
	flag.Parse()

	if *lanes < 1 || *lanes > spi.MaxLanes {
		fmt.Fprintf(os.Stderr, "Error: lanes must be 1-%d\n", spi.MaxLanes)
		os.Exit(1)
	}

	cfg := serial.DefaultConfig(*device)
	cfg.Baud = *baud
	port, err := serial.Open(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer port.Close()

	pins := make([]spi.Pin, *lanes)
	for i := range pins {
		pins[i] = spi.Pin(i)
	}
	dev := spi.NewMultiLaneDevice(spi.DeviceConfig{
		ClockPin:     0,
		DataPins:     pins,
		PaddingFrame: spi.PaddingAPA102,
		Transmitter:  remote.NewTransmitter(port, *lanes, "remote"),
	})
	if err := dev.Begin(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start device: %v\n", err)
		os.Exit(1)
	}
	defer dev.End()

	fmt.Printf("Streaming %d lanes x %d LEDs to %s at %d fps\n", *lanes, *count, *device, *fps)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)

	ticker := time.NewTicker(time.Second / time.Duration(*fps))
	defer ticker.Stop()

	frames := make([][]byte, *lanes)
	for i := range frames {
		frames[i] = make([]byte, 0, (*count+2)*4)
	}

	step := 0
	for {
		select {
		case <-stop:
			fmt.Println("\nStopping")
			return
		case <-ticker.C:
			for i := range frames {
				frames[i] = renderChase(frames[i][:0], *count, step+i*4)
			}
			if err := dev.Write(frames...); err != nil {
				fmt.Fprintf(os.Stderr, "Error: write failed: %v\n", err)
				os.Exit(1)
			}
			step++
		}
	}
}

// renderChase appends an APA102 frame with a single bright pixel
// chasing down the strip.
func renderChase(buf []byte, count, step int) []byte {
	buf = append(buf, 0x00, 0x00, 0x00, 0x00) // start frame
	pos := step % count
	for i := 0; i < count; i++ {
		if i == pos {
			buf = append(buf, 0xFF, 0xFF, 0xFF, 0xFF)
		} else {
			buf = append(buf, 0xE1, 0x08, 0x02, 0x10)
		}
	}
	// end frame: count/2 extra clocks
	for i := 0; i < (count+15)/16+1; i++ {
		buf = append(buf, 0xFF, 0xFF, 0xFF, 0xFF)
	}
	return buf
}
