package spi

// DMAArena is a grow-only transfer buffer. Transmitters keep one so that
// repeated transfers of similar size reuse the same allocation; the
// buffer only reallocates when a larger transfer arrives and is freed in
// End.
type DMAArena struct {
	buf []byte
}

// Acquire returns a buffer of exactly n bytes, reallocating only when
// the arena is too small. Contents are unspecified.
func (a *DMAArena) Acquire(n int) []byte {
	if cap(a.buf) < n {
		a.buf = make([]byte, n)
	}
	return a.buf[:cap(a.buf)][:n]
}

// Size returns the arena's current capacity.
func (a *DMAArena) Size() int {
	return cap(a.buf)
}

// Release frees the arena's backing memory.
func (a *DMAArena) Release() {
	a.buf = nil
}
