package spi

// LaneData is one lane's contribution to a transpose: the payload bytes
// plus a repeating padding frame. Shorter lanes are left-padded with the
// frame so every strip finishes transmitting on the same clock edge and
// all strips latch together. A nil *LaneData marks an absent lane.
//
// Both slices are caller-owned and must not change during the transpose.
type LaneData struct {
	Payload []byte // Actual wire data for this lane
	Padding []byte // Repeating pad pattern, tiled from its first byte
}

// Padding frames for common clocked LED chipsets: one invisible black
// pixel in each chipset's wire encoding.
var (
	PaddingAPA102  = []byte{0xE0, 0x00, 0x00, 0x00} // brightness=0, RGB=0
	PaddingLPD8806 = []byte{0x80, 0x80, 0x80}       // 7-bit GRB, MSB set
	PaddingWS2801  = []byte{0x00, 0x00, 0x00}
	PaddingP9813   = []byte{0xFF, 0x00, 0x00, 0x00} // flag byte + BGR
)

// laneByte returns the byte a lane contributes at position idx of the
// padded stream: padding first, then the payload occupying the tail.
func laneByte(ln *LaneData, idx, maxLen int) byte {
	pad := maxLen - len(ln.Payload)
	if idx < pad {
		return ln.Padding[idx%len(ln.Padding)]
	}
	return ln.Payload[idx-pad]
}
