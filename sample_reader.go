package wave

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-audio/audio"
	"golang.org/x/exp/mmap"
)

// ErrOutOfRange is returned when a requested frame range or channel index
// falls outside the stream geometry.
var ErrOutOfRange = errors.New("out of range")

// SampleReader serves random-access, channel-sliced reads of decoded sample
// frames, backed by a memory mapping over the data chunk's byte range.
//
// The reader is a two-state machine: Closed (no mapping) and Open (mapping
// held). Open and Close are idempotent. ReadFrames on a closed reader opens
// the mapping for the duration of the call only and releases it on every
// exit path; callers doing many reads can call Open once and Close when
// done. A SampleReader is not safe for concurrent use; use one instance per
// goroutine.
type SampleReader struct {
	path string
	geo  StreamGeometry
	m    *mmap.ReaderAt
}

// NewSampleReader creates a reader for the audio data of path as described
// by geo. The mapping is not created until the first read.
func NewSampleReader(path string, geo *StreamGeometry) (*SampleReader, error) {
	if geo == nil {
		return nil, errors.New("nil stream geometry")
	}

	if geo.Encoding.BytesPerSample() == 0 {
		return nil, fmt.Errorf("%w: format tag %d with %d bits per sample",
			ErrUnsupportedEncoding, geo.FormatTag, geo.BitsPerSample)
	}

	if geo.NumChannels < 1 {
		return nil, fmt.Errorf("invalid channel count %d", geo.NumChannels)
	}

	return &SampleReader{path: path, geo: *geo}, nil
}

// Geometry returns a copy of the stream geometry the reader serves.
func (r *SampleReader) Geometry() StreamGeometry { return r.geo }

// IsOpen reports whether the memory mapping is currently held.
func (r *SampleReader) IsOpen() bool { return r != nil && r.m != nil }

// Open maps the file into memory. Calling Open on an open reader is a no-op.
func (r *SampleReader) Open() error {
	if r.m != nil {
		return nil
	}

	m, err := mmap.Open(r.path)
	if err != nil {
		return fmt.Errorf("failed to map %s: %w", r.path, err)
	}

	if int64(m.Len()) < r.geo.AudioDataOffset+r.geo.AudioDataSize {
		m.Close()
		return fmt.Errorf("%w: mapped file is %d bytes, audio data ends at %d",
			ErrTruncatedChunk, m.Len(), r.geo.AudioDataOffset+r.geo.AudioDataSize)
	}

	r.m = m

	return nil
}

// Close releases the memory mapping. Calling Close on a closed reader is a
// no-op.
func (r *SampleReader) Close() error {
	if r == nil || r.m == nil {
		return nil
	}

	err := r.m.Close()
	r.m = nil

	if err != nil {
		return fmt.Errorf("failed to unmap %s: %w", r.path, err)
	}

	return nil
}

// ReadFrames decodes frames [start, end) into a frame × channel matrix of
// normalized float64 samples. With no channel arguments every channel is
// returned; otherwise the given channel indexes are column-sliced in the
// order passed. Requires 0 <= start <= end <= NumFrames.
//
// If the reader is closed, the mapping is opened for this call and released
// before returning, error paths included.
func (r *SampleReader) ReadFrames(start, end int, channels ...int) ([][]float64, error) {
	if start < 0 || start > end || end > r.geo.NumFrames {
		return nil, fmt.Errorf("%w: frames [%d, %d) of %d", ErrOutOfRange, start, end, r.geo.NumFrames)
	}

	sel := channels
	if len(sel) == 0 {
		sel = make([]int, r.geo.NumChannels)
		for i := range sel {
			sel[i] = i
		}
	}

	for _, ch := range sel {
		if ch < 0 || ch >= r.geo.NumChannels {
			return nil, fmt.Errorf("%w: channel %d of %d", ErrOutOfRange, ch, r.geo.NumChannels)
		}
	}

	if !r.IsOpen() {
		if err := r.Open(); err != nil {
			return nil, err
		}
		defer r.Close()
	}

	width := r.geo.Encoding.BytesPerSample()
	stride := r.geo.NumChannels * width
	count := end - start

	out := make([][]float64, count)
	if count == 0 {
		return out, nil
	}

	buf := make([]byte, count*stride)
	if _, err := r.m.ReadAt(buf, r.geo.AudioDataOffset+int64(start)*int64(stride)); err != nil {
		return nil, fmt.Errorf("failed to read frames [%d, %d): %w", start, end, err)
	}

	decode := decodeSampleFunc(r.geo.Encoding)

	for i := 0; i < count; i++ {
		row := make([]float64, len(sel))
		frameOff := i * stride

		for j, ch := range sel {
			off := frameOff + ch*width
			row[j] = decode(buf[off : off+width])
		}

		out[i] = row
	}

	return out, nil
}

// ReadBuffer decodes frames [start, end) of every channel into an
// interleaved go-audio float buffer.
func (r *SampleReader) ReadBuffer(start, end int) (*audio.FloatBuffer, error) {
	frames, err := r.ReadFrames(start, end)
	if err != nil {
		return nil, err
	}

	data := make([]float64, 0, len(frames)*r.geo.NumChannels)
	for _, row := range frames {
		data = append(data, row...)
	}

	return &audio.FloatBuffer{
		Format: r.geo.Format(),
		Data:   data,
	}, nil
}

// decodeSampleFunc returns the decoder converting one raw sample to a
// normalized float64. Integer PCM divides by 2^(bits-1) (0x8000 for 16-bit,
// 0x80000000 for 32-bit); unsigned 8-bit divides the raw byte by 255; floats
// pass through unchanged.
func decodeSampleFunc(enc Encoding) func([]byte) float64 {
	switch enc {
	case EncodingPCMU8:
		return func(b []byte) float64 {
			return float64(b[0]) / 0xFF
		}
	case EncodingPCM16:
		return func(b []byte) float64 {
			return float64(int16(binary.LittleEndian.Uint16(b))) / 0x8000
		}
	case EncodingPCM24:
		return func(b []byte) float64 {
			// the three raw bytes land in the upper byte positions of a
			// 32-bit sample, pre-scaled by 256, so the 32-bit divisor
			// applies; maximum negative 00 00 80 reaches exactly -1.0
			var q [4]byte
			copy(q[1:], b)

			return float64(int32(binary.LittleEndian.Uint32(q[:]))) / 0x80000000
		}
	case EncodingPCM32:
		return func(b []byte) float64 {
			return float64(int32(binary.LittleEndian.Uint32(b))) / 0x80000000
		}
	case EncodingFloat32:
		return func(b []byte) float64 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
		}
	case EncodingFloat64:
		return func(b []byte) float64 {
			return math.Float64frombits(binary.LittleEndian.Uint64(b))
		}
	default:
		return func([]byte) float64 { return 0 }
	}
}
