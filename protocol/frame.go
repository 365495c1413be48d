// Wire framing for streaming interleaved lane data to a remote
// transmitter over a byte link (UART, USB CDC). One frame carries one
// complete wire buffer:
//
//	[lanes] [seq] [VLQ payload length] [payload...] [crcHi] [crcLo] [0x7E]
//
// The CRC covers everything before it. The trailing sync byte lets a
// receiver that lost framing hunt for a frame boundary.
package protocol

import (
	"bytes"
	"errors"
)

const (
	// SyncByte terminates every frame.
	SyncByte = 0x7E

	// MaxPayload bounds a frame's payload. Protects receivers from
	// allocating on a corrupt length field.
	MaxPayload = 1 << 16

	headerSize  = 2 // lanes + seq
	trailerSize = 3 // crcHi + crcLo + sync
)

var (
	ErrShortFrame  = errors.New("protocol: incomplete frame")
	ErrBadCRC      = errors.New("protocol: frame CRC mismatch")
	ErrPayloadSize = errors.New("protocol: frame payload too large")
	ErrBadSync     = errors.New("protocol: missing frame sync byte")
)

// Frame is one transmission unit: an interleaved wire buffer tagged
// with its lane width and a rolling sequence number.
type Frame struct {
	Lanes   uint8
	Seq     uint8
	Payload []byte
}

// AppendFrame appends the encoded frame to dst and returns the extended
// slice.
func AppendFrame(dst []byte, f Frame) []byte {
	start := len(dst)
	dst = append(dst, f.Lanes, f.Seq)
	dst = AppendVLQ(dst, uint32(len(f.Payload)))
	dst = append(dst, f.Payload...)
	crc := CRC16(dst[start:])
	return append(dst, byte(crc>>8), byte(crc), SyncByte)
}

// DecodeFrame decodes one frame from the front of data. It returns the
// frame, the number of bytes consumed, and an error. ErrShortFrame
// means more input is needed; the other errors mean the stream is
// corrupt and the caller should Resync. The returned payload aliases
// data.
func DecodeFrame(data []byte) (Frame, int, error) {
	if len(data) < headerSize+1 {
		return Frame{}, 0, ErrShortFrame
	}
	plen, n, err := DecodeVLQ(data[headerSize:])
	if err == ErrTruncatedVLQ {
		return Frame{}, 0, ErrShortFrame
	}
	if err != nil {
		return Frame{}, 0, err
	}
	if plen > MaxPayload {
		return Frame{}, 0, ErrPayloadSize
	}
	total := headerSize + n + int(plen) + trailerSize
	if len(data) < total {
		return Frame{}, 0, ErrShortFrame
	}
	if data[total-1] != SyncByte {
		return Frame{}, 0, ErrBadSync
	}
	body := data[:total-trailerSize]
	want := uint16(data[total-3])<<8 | uint16(data[total-2])
	if CRC16(body) != want {
		return Frame{}, 0, ErrBadCRC
	}
	f := Frame{
		Lanes:   data[0],
		Seq:     data[1],
		Payload: data[headerSize+n : total-trailerSize],
	}
	return f, total, nil
}

// Resync returns the number of bytes to discard so the stream resumes
// just past the next sync byte, or len(data) when none is present.
func Resync(data []byte) int {
	if i := bytes.IndexByte(data, SyncByte); i >= 0 {
		return i + 1
	}
	return len(data)
}
