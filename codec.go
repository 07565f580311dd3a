package wave

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrUnsupportedWidth is returned when a field width is not 1, 2, 4 or 8 bytes.
var ErrUnsupportedWidth = errors.New("unsupported byte width")

// All multi-byte values in RIFF/WAVE structures are little-endian,
// regardless of host order.

func uintFromBytes(b []byte) (uint64, error) {
	switch len(b) {
	case 1:
		return uint64(b[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(b)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(b)), nil
	case 8:
		return binary.LittleEndian.Uint64(b), nil
	default:
		return 0, fmt.Errorf("%w: %d bytes", ErrUnsupportedWidth, len(b))
	}
}

func intFromBytes(b []byte) (int64, error) {
	switch len(b) {
	case 1:
		return int64(int8(b[0])), nil
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(b))), nil
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(b))), nil
	case 8:
		return int64(binary.LittleEndian.Uint64(b)), nil
	default:
		return 0, fmt.Errorf("%w: %d bytes", ErrUnsupportedWidth, len(b))
	}
}

func uintToBytes(v uint64, width int) ([]byte, error) {
	b := make([]byte, width)

	switch width {
	case 1:
		b[0] = byte(v)
	case 2:
		binary.LittleEndian.PutUint16(b, uint16(v))
	case 4:
		binary.LittleEndian.PutUint32(b, uint32(v))
	case 8:
		binary.LittleEndian.PutUint64(b, v)
	default:
		return nil, fmt.Errorf("%w: %d bytes", ErrUnsupportedWidth, width)
	}

	return b, nil
}

func intToBytes(v int64, width int) ([]byte, error) {
	return uintToBytes(uint64(v), width)
}

// asciiFromBytes converts a fixed-width RIFF string field to a Go string,
// stripping trailing NUL padding.
func asciiFromBytes(b []byte) string {
	return string(b[:clen(b)])
}

func clen(b []byte) int {
	for i := range b {
		if b[i] == 0 {
			return i
		}
	}

	return len(b)
}
