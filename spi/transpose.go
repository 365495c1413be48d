package spi

import "errors"

var (
	// ErrOutputSize reports an output buffer whose length is not exactly
	// the longest lane length times the lane count. Nothing is written.
	ErrOutputSize = errors.New("spi: output length must equal longest lane length times lane count")

	// ErrEmptyPadding reports a lane that needs left-padding but carries
	// an empty padding frame.
	ErrEmptyPadding = errors.New("spi: short lane requires a non-empty padding frame")
)

// Transpose2 interleaves two lanes into dual-SPI wire format. Each input
// byte becomes 2 output bytes carrying a 4-bit group per lane, lane 0 in
// the low nibble, most significant group first.
func Transpose2(lane0, lane1 *LaneData, out []byte) error {
	lanes := [2]*LaneData{lane0, lane1}
	return transposeLanes(lanes[:], out)
}

// Transpose4 interleaves four lanes into quad-SPI wire format. Each
// input byte becomes 4 output bytes carrying a 2-bit group per lane,
// lane 0 in the low bits.
func Transpose4(lane0, lane1, lane2, lane3 *LaneData, out []byte) error {
	lanes := [4]*LaneData{lane0, lane1, lane2, lane3}
	return transposeLanes(lanes[:], out)
}

// Transpose8 interleaves eight lanes into octal-SPI wire format. Each
// input byte becomes 8 output bytes, each carrying one bit per lane,
// lane 0 at bit 0, MSB of the source byte first.
func Transpose8(lanes *[8]*LaneData, out []byte) error {
	return transposeLanes(lanes[:], out)
}

// Transpose16 interleaves sixteen lanes. Output bytes 0-7 of each group
// carry lanes 0-7 and bytes 8-15 carry lanes 8-15, one bit per lane.
func Transpose16(lanes *[16]*LaneData, out []byte) error {
	return transposeLanes(lanes[:], out)
}

// transposeLanes is the width-generic core. It validates sizing and
// padding up front and writes nothing on failure.
func transposeLanes(lanes []*LaneData, out []byte) error {
	width := len(lanes)

	maxLen := 0
	for _, ln := range lanes {
		if ln != nil && len(ln.Payload) > maxLen {
			maxLen = len(ln.Payload)
		}
	}
	if len(out) != maxLen*width {
		return ErrOutputSize
	}
	if maxLen == 0 {
		return nil
	}
	for _, ln := range lanes {
		if ln != nil && len(ln.Payload) < maxLen && len(ln.Padding) == 0 {
			return ErrEmptyPadding
		}
	}

	// Absent lanes behave like zero-length lanes padded with the first
	// present lane's frame, or zero bytes when no lane supplies one.
	fallback := []byte{0x00}
	for _, ln := range lanes {
		if ln != nil && len(ln.Padding) > 0 {
			fallback = ln.Padding
			break
		}
	}
	absent := LaneData{Padding: fallback}

	var laneBytes [16]byte
	for idx := 0; idx < maxLen; idx++ {
		for i, ln := range lanes {
			if ln == nil {
				ln = &absent
			}
			laneBytes[i] = laneByte(ln, idx, maxLen)
		}
		dst := out[idx*width : (idx+1)*width]
		switch width {
		case 2:
			interleaveByte2(dst, laneBytes[0], laneBytes[1])
		case 4:
			interleaveByte4(dst, laneBytes[0], laneBytes[1], laneBytes[2], laneBytes[3])
		case 8:
			interleaveByte8(dst, laneBytes[:8])
		case 16:
			interleaveByte16(dst, laneBytes[:16])
		}
	}
	return nil
}

// interleaveByte2 packs one byte from each of 2 lanes into 2 output
// bytes: [b7 b6 b5 b4 a7 a6 a5 a4] [b3 b2 b1 b0 a3 a2 a1 a0].
func interleaveByte2(dst []byte, a, b byte) {
	dst[0] = ((a >> 4) & 0x0F) | (((b >> 4) & 0x0F) << 4)
	dst[1] = (a & 0x0F) | ((b & 0x0F) << 4)
}

// interleaveByte4 packs one byte from each of 4 lanes into 4 output
// bytes of the form [d1 d0 c1 c0 b1 b0 a1 a0], MSB pair first.
func interleaveByte4(dst []byte, a, b, c, d byte) {
	dst[0] = ((a >> 6) & 0x03) | (((b >> 6) & 0x03) << 2) |
		(((c >> 6) & 0x03) << 4) | (((d >> 6) & 0x03) << 6)
	dst[1] = ((a >> 4) & 0x03) | (((b >> 4) & 0x03) << 2) |
		(((c >> 4) & 0x03) << 4) | (((d >> 4) & 0x03) << 6)
	dst[2] = ((a >> 2) & 0x03) | (((b >> 2) & 0x03) << 2) |
		(((c >> 2) & 0x03) << 4) | (((d >> 2) & 0x03) << 6)
	dst[3] = (a & 0x03) | ((b & 0x03) << 2) |
		((c & 0x03) << 4) | ((d & 0x03) << 6)
}

// interleaveByte8 packs one byte from each of 8 lanes into 8 output
// bytes; output byte j carries bit (7-j) of every lane, lane 0 at bit 0.
func interleaveByte8(dst []byte, lanes []byte) {
	for bit := 7; bit >= 0; bit-- {
		var ob byte
		for lane := 0; lane < 8; lane++ {
			ob |= ((lanes[lane] >> uint(bit)) & 1) << uint(lane)
		}
		dst[7-bit] = ob
	}
}

// interleaveByte16 is interleaveByte8 split across two byte groups:
// lanes 0-7 land in dst[0:8], lanes 8-15 in dst[8:16].
func interleaveByte16(dst []byte, lanes []byte) {
	for bit := 7; bit >= 0; bit-- {
		var lo, hi byte
		for lane := 0; lane < 8; lane++ {
			lo |= ((lanes[lane] >> uint(bit)) & 1) << uint(lane)
			hi |= ((lanes[lane+8] >> uint(bit)) & 1) << uint(lane)
		}
		dst[7-bit] = lo
		dst[15-bit] = hi
	}
}
