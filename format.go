package wave

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-audio/audio"
)

var (
	// ErrMissingFmtChunk is returned when a WAVE file has no "fmt " chunk.
	ErrMissingFmtChunk = errors.New("missing fmt chunk")
	// ErrMissingDataChunk is returned when a WAVE file has no "data" chunk.
	ErrMissingDataChunk = errors.New("missing data chunk")
	// ErrMissingFactChunk is returned when a non-PCM file lacks the "fact"
	// chunk its frame count must come from.
	ErrMissingFactChunk = errors.New("missing fact chunk")
	// ErrUnsupportedEncoding is returned for format tag / bit depth
	// combinations this package cannot decode.
	ErrUnsupportedEncoding = errors.New("unsupported encoding")
)

// Encoding is the canonical identifier of a supported sample encoding.
type Encoding int

const (
	EncodingUnknown Encoding = iota
	// EncodingPCMU8 is unsigned 8-bit PCM.
	EncodingPCMU8
	// EncodingPCM16 is signed 16-bit PCM.
	EncodingPCM16
	// EncodingPCM24 is signed 24-bit PCM, packed as 3 bytes per sample.
	EncodingPCM24
	// EncodingPCM32 is signed 32-bit PCM.
	EncodingPCM32
	// EncodingFloat32 is 32-bit IEEE float.
	EncodingFloat32
	// EncodingFloat64 is 64-bit IEEE float.
	EncodingFloat64
)

func (e Encoding) String() string {
	switch e {
	case EncodingPCMU8:
		return "PCM_U8"
	case EncodingPCM16:
		return "PCM_16"
	case EncodingPCM24:
		return "PCM_24"
	case EncodingPCM32:
		return "PCM_32"
	case EncodingFloat32:
		return "FLOAT"
	case EncodingFloat64:
		return "DOUBLE"
	default:
		return "UNKNOWN"
	}
}

// BytesPerSample returns the storage width of one sample, 3 for packed
// 24-bit PCM.
func (e Encoding) BytesPerSample() int {
	switch e {
	case EncodingPCMU8:
		return 1
	case EncodingPCM16:
		return 2
	case EncodingPCM24:
		return 3
	case EncodingPCM32, EncodingFloat32:
		return 4
	case EncodingFloat64:
		return 8
	default:
		return 0
	}
}

// StreamGeometry describes the audio stream of a WAVE file: channel layout,
// sample encoding and the byte range of the data chunk. It is derived once
// from the fmt (and, for non-PCM tags, fact) chunk and never changes.
type StreamGeometry struct {
	// FormatTag is the effective WAVE format tag, extensible indirection
	// already resolved.
	FormatTag     uint16
	NumChannels   int
	SampleRate    int
	BitsPerSample int
	// BlockAlign is the byte count of one frame across all channels.
	BlockAlign int
	// AudioDataOffset is the file offset of the first sample byte (data
	// chunk start plus the 8-byte header).
	AudioDataOffset int64
	// AudioDataSize is the data chunk size without its header.
	AudioDataSize int64
	NumFrames     int
	Encoding      Encoding
}

// ResolveFormat derives the stream geometry of an opened container from its
// fmt chunk. For uncompressed tags (PCM, IEEE float) the frame count is
// AudioDataSize / BlockAlign; any other tag requires a fact chunk. Format
// tag / bit depth combinations without a decode path fail with
// ErrUnsupportedEncoding after the frame count has been established.
func ResolveFormat(c *Container) (*StreamGeometry, error) {
	if !c.HasChunk("fmt") {
		return nil, fmt.Errorf("%w in %s", ErrMissingFmtChunk, c.Path())
	}

	decoded, err := c.DecodeChunk("fmt")
	if err != nil {
		return nil, err
	}

	fmtChunk := decoded.(*FmtChunk)

	loc, ok := c.ChunkLocation("data")
	if !ok {
		return nil, fmt.Errorf("%w in %s", ErrMissingDataChunk, c.Path())
	}

	geo := &StreamGeometry{
		FormatTag:       fmtChunk.EffectiveTag(),
		NumChannels:     fmtChunk.NumChannels(),
		SampleRate:      fmtChunk.SampleRate(),
		BitsPerSample:   fmtChunk.BitsPerSample(),
		BlockAlign:      fmtChunk.BlockAlign(),
		AudioDataOffset: loc.Start + 8,
		AudioDataSize:   loc.Size - 8,
	}

	switch geo.FormatTag {
	case wavFormatPCM, wavFormatIEEEFloat:
		if geo.BlockAlign == 0 {
			return nil, fmt.Errorf("fmt chunk of %s declares a zero block align", c.Path())
		}

		geo.NumFrames = int(geo.AudioDataSize) / geo.BlockAlign
	default:
		// compressed tags have no decode path here, but geometry
		// resolution must still report the fact-declared frame count
		if !c.HasChunk("fact") {
			return nil, fmt.Errorf("%w: format tag %d requires one", ErrMissingFactChunk, geo.FormatTag)
		}

		factDecoded, err := c.DecodeChunk("fact")
		if err != nil {
			return nil, err
		}

		geo.NumFrames = factDecoded.(*FactChunk).NumFrames()
	}

	geo.Encoding, err = resolveEncoding(geo.FormatTag, geo.BitsPerSample)
	if err != nil {
		return nil, err
	}

	return geo, nil
}

func resolveEncoding(tag uint16, bits int) (Encoding, error) {
	switch {
	case tag == wavFormatPCM && bits == 8:
		return EncodingPCMU8, nil
	case tag == wavFormatPCM && bits == 16:
		return EncodingPCM16, nil
	case tag == wavFormatPCM && bits == 24:
		return EncodingPCM24, nil
	case tag == wavFormatPCM && bits == 32:
		return EncodingPCM32, nil
	case tag == wavFormatIEEEFloat && bits == 32:
		return EncodingFloat32, nil
	case tag == wavFormatIEEEFloat && bits == 64:
		return EncodingFloat64, nil
	default:
		return EncodingUnknown, fmt.Errorf("%w: format tag %d with %d bits per sample", ErrUnsupportedEncoding, tag, bits)
	}
}

// Format returns the stream geometry as a go-audio format descriptor.
func (g *StreamGeometry) Format() *audio.Format {
	if g == nil {
		return nil
	}

	return &audio.Format{
		NumChannels: g.NumChannels,
		SampleRate:  g.SampleRate,
	}
}

// Duration returns the stream length as wall-clock time.
func (g *StreamGeometry) Duration() time.Duration {
	if g == nil || g.SampleRate == 0 {
		return 0
	}

	return time.Duration(float64(g.NumFrames) / float64(g.SampleRate) * float64(time.Second))
}
