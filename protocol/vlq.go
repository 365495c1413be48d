package protocol

import "errors"

var (
	ErrInvalidVLQ   = errors.New("protocol: invalid VLQ encoding")
	ErrTruncatedVLQ = errors.New("protocol: truncated VLQ")
)

// maxVLQLen is the longest encoding of a uint32: five 7-bit groups.
const maxVLQLen = 5

// AppendVLQ appends v in variable-length form: 7-bit groups, most
// significant first, continuation bit set on all but the last byte.
func AppendVLQ(dst []byte, v uint32) []byte {
	if v >= 1<<28 {
		dst = append(dst, byte(v>>28)&0x7F|0x80)
	}
	if v >= 1<<21 {
		dst = append(dst, byte(v>>21)&0x7F|0x80)
	}
	if v >= 1<<14 {
		dst = append(dst, byte(v>>14)&0x7F|0x80)
	}
	if v >= 1<<7 {
		dst = append(dst, byte(v>>7)&0x7F|0x80)
	}
	return append(dst, byte(v)&0x7F)
}

// DecodeVLQ decodes one value from the front of data, returning the
// value and the number of bytes consumed.
func DecodeVLQ(data []byte) (uint32, int, error) {
	var v uint32
	for i, b := range data {
		if i == maxVLQLen {
			return 0, 0, ErrInvalidVLQ
		}
		v = v<<7 | uint32(b&0x7F)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 0, ErrTruncatedVLQ
}
