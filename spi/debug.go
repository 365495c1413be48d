package spi

// WarnWriter is a function type for writing warning messages
type WarnWriter func(string)

// warnPrintln is the global warning sink (can be set by platform code).
// No-op by default so the core stays silent unless wired up.
var warnPrintln WarnWriter = func(string) {}

// SetWarnWriter sets the platform-specific warning output function.
// This allows platforms to redirect warnings to UART, USB, a logger, etc.
func SetWarnWriter(w WarnWriter) {
	if w == nil {
		w = func(string) {}
	}
	warnPrintln = w
}

// Warnln writes a non-fatal diagnostic message to the configured sink.
func Warnln(msg string) {
	warnPrintln(msg)
}

// itoa converts an integer to a string without pulling fmt into the
// core package (keeps tinygo builds lean).
func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [12]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
