package spi

import (
	"bytes"
	"testing"
)

// delane2 recovers one lane from a dual-interleaved buffer.
func delane2(out []byte, lane int) []byte {
	n := len(out) / 2
	res := make([]byte, n)
	shift := uint(4 * lane)
	for i := 0; i < n; i++ {
		hi := (out[i*2] >> shift) & 0x0F
		lo := (out[i*2+1] >> shift) & 0x0F
		res[i] = hi<<4 | lo
	}
	return res
}

// delane4 recovers one lane from a quad-interleaved buffer.
func delane4(out []byte, lane int) []byte {
	n := len(out) / 4
	res := make([]byte, n)
	shift := uint(2 * lane)
	for i := 0; i < n; i++ {
		var b byte
		for j := 0; j < 4; j++ {
			b = b<<2 | (out[i*4+j]>>shift)&0x03
		}
		res[i] = b
	}
	return res
}

// delane8 recovers one lane from an octal-interleaved buffer. With
// group=16 it also handles the 16-lane layout (lane 8+ at offset 8).
func delane8(out []byte, lane, group int) []byte {
	n := len(out) / group
	res := make([]byte, n)
	off := 0
	if lane >= 8 {
		off = 8
		lane -= 8
	}
	for i := 0; i < n; i++ {
		var b byte
		for j := 0; j < 8; j++ {
			b |= ((out[i*group+off+j] >> uint(lane)) & 1) << uint(7-j)
		}
		res[i] = b
	}
	return res
}

func TestTranspose2RoundTrip(t *testing.T) {
	l0 := &LaneData{Payload: []byte{0x12, 0x34, 0x56}, Padding: []byte{0x00}}
	l1 := &LaneData{Payload: []byte{0xAB, 0xCD, 0xEF}, Padding: []byte{0x00}}
	out := make([]byte, 6)
	if err := Transpose2(l0, l1, out); err != nil {
		t.Fatalf("Transpose2 failed: %v", err)
	}
	if got := delane2(out, 0); !bytes.Equal(got, l0.Payload) {
		t.Errorf("Expected lane 0 %x, got %x", l0.Payload, got)
	}
	if got := delane2(out, 1); !bytes.Equal(got, l1.Payload) {
		t.Errorf("Expected lane 1 %x, got %x", l1.Payload, got)
	}
}

func TestTranspose4RoundTrip(t *testing.T) {
	payloads := [4][]byte{
		{0x01, 0x02}, {0x40, 0x80}, {0xFF, 0x00}, {0xA5, 0x5A},
	}
	var lanes [4]*LaneData
	for i := range lanes {
		lanes[i] = &LaneData{Payload: payloads[i], Padding: []byte{0x00}}
	}
	out := make([]byte, 8)
	if err := Transpose4(lanes[0], lanes[1], lanes[2], lanes[3], out); err != nil {
		t.Fatalf("Transpose4 failed: %v", err)
	}
	for i := range lanes {
		if got := delane4(out, i); !bytes.Equal(got, payloads[i]) {
			t.Errorf("Expected lane %d %x, got %x", i, payloads[i], got)
		}
	}
}

func TestTranspose4SingleByte(t *testing.T) {
	// One byte per lane expands to exactly 4 wire bytes with lane 0 in
	// the low bit pair of each.
	lanes := [4]*LaneData{
		{Payload: []byte{0xFF}},
		{Payload: []byte{0x00}},
		{Payload: []byte{0x00}},
		{Payload: []byte{0x00}},
	}
	out := make([]byte, 4)
	if err := Transpose4(lanes[0], lanes[1], lanes[2], lanes[3], out); err != nil {
		t.Fatalf("Transpose4 failed: %v", err)
	}
	for j, b := range out {
		if b != 0x03 {
			t.Errorf("Expected 0x03 at byte %d, got 0x%02x", j, b)
		}
	}
}

func TestTranspose8RoundTrip(t *testing.T) {
	var lanes [8]*LaneData
	var payloads [8][]byte
	for i := range lanes {
		payloads[i] = []byte{byte(i * 31), byte(0xFF - i), byte(1 << uint(i%8))}
		lanes[i] = &LaneData{Payload: payloads[i], Padding: []byte{0x00}}
	}
	out := make([]byte, 24)
	if err := Transpose8(&lanes, out); err != nil {
		t.Fatalf("Transpose8 failed: %v", err)
	}
	for i := range lanes {
		if got := delane8(out, i, 8); !bytes.Equal(got, payloads[i]) {
			t.Errorf("Expected lane %d %x, got %x", i, payloads[i], got)
		}
	}
}

func TestTranspose16RoundTrip(t *testing.T) {
	var lanes [16]*LaneData
	var payloads [16][]byte
	for i := range lanes {
		payloads[i] = []byte{byte(i), byte(i * 17)}
		lanes[i] = &LaneData{Payload: payloads[i], Padding: []byte{0x00}}
	}
	out := make([]byte, 32)
	if err := Transpose16(&lanes, out); err != nil {
		t.Fatalf("Transpose16 failed: %v", err)
	}
	for i := range lanes {
		if got := delane8(out, i, 16); !bytes.Equal(got, payloads[i]) {
			t.Errorf("Expected lane %d %x, got %x", i, payloads[i], got)
		}
	}
}

func TestTransposePaddingTiles(t *testing.T) {
	// Lane 1 is 3 bytes short; its padding frame {0xE0, 0x00} must tile
	// from index 0 over the deficit before the payload starts.
	l0 := &LaneData{Payload: []byte{1, 2, 3, 4, 5}, Padding: []byte{0x00}}
	l1 := &LaneData{Payload: []byte{9, 8}, Padding: []byte{0xE0, 0x00}}
	out := make([]byte, 10)
	if err := Transpose2(l0, l1, out); err != nil {
		t.Fatalf("Transpose2 failed: %v", err)
	}
	want := []byte{0xE0, 0x00, 0xE0, 9, 8}
	if got := delane2(out, 1); !bytes.Equal(got, want) {
		t.Errorf("Expected padded lane %x, got %x", want, got)
	}
	if got := delane2(out, 0); !bytes.Equal(got, l0.Payload) {
		t.Errorf("Expected full lane %x, got %x", l0.Payload, got)
	}
}

func TestTransposeAbsentLane(t *testing.T) {
	// A nil lane behaves exactly like a zero-length lane carrying the
	// fallback padding frame.
	l0 := &LaneData{Payload: []byte{0x11, 0x22}, Padding: []byte{0xAA}}
	outNil := make([]byte, 8)
	if err := Transpose4(l0, nil, nil, nil, outNil); err != nil {
		t.Fatalf("Transpose4 with nil lanes failed: %v", err)
	}

	empty := &LaneData{Padding: []byte{0xAA}}
	outEmpty := make([]byte, 8)
	if err := Transpose4(l0, empty, empty, empty, outEmpty); err != nil {
		t.Fatalf("Transpose4 with empty lanes failed: %v", err)
	}
	if !bytes.Equal(outNil, outEmpty) {
		t.Errorf("Expected nil lane output %x to match empty lane output %x", outNil, outEmpty)
	}
	for i := 1; i < 4; i++ {
		want := []byte{0xAA, 0xAA}
		if got := delane4(outNil, i); !bytes.Equal(got, want) {
			t.Errorf("Expected lane %d padded with %x, got %x", i, want, got)
		}
	}
}

func TestTransposeOutputSize(t *testing.T) {
	l0 := &LaneData{Payload: []byte{1, 2, 3}, Padding: []byte{0}}
	l1 := &LaneData{Payload: []byte{4, 5, 6}, Padding: []byte{0}}
	for _, n := range []int{0, 5, 7, 12} {
		out := make([]byte, n)
		for i := range out {
			out[i] = 0xCC
		}
		if err := Transpose2(l0, l1, out); err != ErrOutputSize {
			t.Errorf("Expected ErrOutputSize for len %d, got %v", n, err)
		}
		for i, b := range out {
			if b != 0xCC {
				t.Errorf("Expected output untouched at %d, got 0x%02x", i, b)
				break
			}
		}
	}
}

func TestTransposeEmptyPadding(t *testing.T) {
	l0 := &LaneData{Payload: []byte{1, 2, 3}, Padding: []byte{0}}
	l1 := &LaneData{Payload: []byte{4}} // short, no padding frame
	out := make([]byte, 6)
	if err := Transpose2(l0, l1, out); err != ErrEmptyPadding {
		t.Errorf("Expected ErrEmptyPadding, got %v", err)
	}

	// A full-length lane never consults its padding frame, so an empty
	// frame there is fine.
	l1.Payload = []byte{4, 5, 6}
	if err := Transpose2(l0, l1, out); err != nil {
		t.Errorf("Expected full-length lane with empty padding to pass, got %v", err)
	}
}

func TestTransposeAllEmpty(t *testing.T) {
	if err := Transpose2(&LaneData{}, &LaneData{}, nil); err != nil {
		t.Errorf("Expected all-empty transpose to succeed, got %v", err)
	}
	if err := Transpose8(&[8]*LaneData{}, []byte{}); err != nil {
		t.Errorf("Expected all-nil transpose to succeed, got %v", err)
	}
}

func TestTransposeChipsetPadding(t *testing.T) {
	// APA102 padding tiles its 4-byte black pixel over an 8-byte deficit.
	l0 := &LaneData{Payload: bytes.Repeat([]byte{0x77}, 8), Padding: PaddingAPA102}
	l1 := &LaneData{Padding: PaddingAPA102}
	out := make([]byte, 16)
	if err := Transpose2(l0, l1, out); err != nil {
		t.Fatalf("Transpose2 failed: %v", err)
	}
	want := append(append([]byte{}, PaddingAPA102...), PaddingAPA102...)
	if got := delane2(out, 1); !bytes.Equal(got, want) {
		t.Errorf("Expected %x, got %x", want, got)
	}
}
