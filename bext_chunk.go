package wave

import (
	"bytes"
	"errors"
	"fmt"
)

// ErrUnknownBextVersion is returned when a bext chunk declares a version
// this package does not know (anything above 2).
var ErrUnknownBextVersion = errors.New("unknown bext chunk version")

// bext layout, offsets relative to chunk start (header included).
// See EBU tech 3285.
const (
	bextDescriptionOff = 8
	bextDescriptionLen = 256
	bextOriginatorLen  = 32
	bextOrigRefLen     = 32
	bextDateLen        = 10
	bextTimeLen        = 8
	bextVersionOff     = 354
	bextUMIDOff        = 356
	bextUMIDLen        = 64
	bextLoudnessOff    = 420
	bextCodingHistOff  = 610
)

// BextChunk is the decoded broadcast audio extension ("bext") chunk,
// versions 0 through 2. The version discriminator is read once at
// construction and fixes the field table: version 1 overlays a 64-byte UMID
// on the v0 Reserved span, version 2 further overlays five signed 16-bit
// loudness fields (each 100× the value in LUFS/LU/dBTP).
type BextChunk struct {
	chunkData
	version int
}

// NewBextChunk decodes raw "bext" chunk bytes.
func NewBextChunk(b []byte) (*BextChunk, error) {
	cd, err := newChunkData(b)
	if err != nil {
		return nil, err
	}

	c := &BextChunk{chunkData: cd}
	if err := c.requireID("bext", "bext"); err != nil {
		return nil, err
	}

	if err := c.requireLen(bextCodingHistOff, "bext"); err != nil {
		return nil, err
	}

	c.setField("Description", bextDescriptionOff, bextDescriptionLen)
	c.setField("Originator", 264, bextOriginatorLen)
	c.setField("OriginatorReference", 296, bextOrigRefLen)
	c.setField("OriginationDate", 328, bextDateLen)
	c.setField("OriginationTime", 338, bextTimeLen)
	c.setField("TimeReference", 346, 8)
	c.setField("Version", bextVersionOff, 2)
	c.setField("Reserved", 356, 254)
	c.setField("CodingHistory", bextCodingHistOff, len(c.data)-bextCodingHistOff)

	c.version = int(c.fieldUint("Version"))

	switch c.version {
	case 0:
	case 1, 2:
		c.setField("UMID", bextUMIDOff, bextUMIDLen)
		c.setField("Reserved", 420, 190)

		if c.version == 2 {
			c.setField("LoudnessValue", bextLoudnessOff, 2)
			c.setField("LoudnessRange", 422, 2)
			c.setField("MaxTruePeakLevel", 424, 2)
			c.setField("MaxMomentaryLoudness", 426, 2)
			c.setField("MaxShortTermLoudness", 428, 2)
			c.setField("Reserved", 430, 180)
		}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownBextVersion, c.version)
	}

	return c, nil
}

func (c *BextChunk) Kind() ChunkKind { return KindBext }

// Version returns the BWF version declared by the chunk (0, 1 or 2).
func (c *BextChunk) Version() int { return c.version }

// Description is a free description of the sequence, at most 256 characters.
func (c *BextChunk) Description() string { return c.fieldString("Description") }

// SetDescription overwrites the description in the chunk's private byte
// copy. Chunk mutators never write through to the underlying file.
func (c *BextChunk) SetDescription(s string) error { return c.setFieldString("Description", s) }

// Originator names the producer of the audio file, at most 32 characters.
func (c *BextChunk) Originator() string { return c.fieldString("Originator") }

func (c *BextChunk) SetOriginator(s string) error { return c.setFieldString("Originator", s) }

// OriginatorReference is a non-ambiguous reference allocated by the
// originating organization.
func (c *BextChunk) OriginatorReference() string { return c.fieldString("OriginatorReference") }

func (c *BextChunk) SetOriginatorReference(s string) error {
	return c.setFieldString("OriginatorReference", s)
}

// OriginationDate is the creation date as ten ASCII characters, ISO 8601
// ("YYYY-MM-DD") or a year-range form such as "2023/2025".
func (c *BextChunk) OriginationDate() string { return c.fieldString("OriginationDate") }

func (c *BextChunk) SetOriginationDate(s string) error {
	return c.setFieldString("OriginationDate", s)
}

// OriginationTime is the creation time as eight ASCII characters
// ("HH:MM:SS", "HH:MM", or "HH").
func (c *BextChunk) OriginationTime() string { return c.fieldString("OriginationTime") }

func (c *BextChunk) SetOriginationTime(s string) error {
	return c.setFieldString("OriginationTime", s)
}

// TimeReference is the timecode of the sequence: the first sample count
// since midnight.
func (c *BextChunk) TimeReference() uint64 { return c.fieldUint("TimeReference") }

func (c *BextChunk) SetTimeReference(v uint64) error { return c.setFieldUint("TimeReference", v) }

// Reserved returns the reserved span for the chunk's version, trailing NULs
// stripped.
func (c *BextChunk) Reserved() []byte {
	return bytes.TrimRight(c.fieldBytes("Reserved"), "\x00")
}

// CodingHistory is a CR/LF-separated list of coding-process descriptions.
func (c *BextChunk) CodingHistory() string { return c.fieldString("CodingHistory") }

func (c *BextChunk) SetCodingHistory(s string) error { return c.setFieldString("CodingHistory", s) }

// UMID returns the SMPTE 330M unique material identifier, trailing NULs
// stripped. Present from version 1 onward.
func (c *BextChunk) UMID() ([]byte, bool) {
	if c.version < 1 {
		return nil, false
	}

	return bytes.TrimRight(c.fieldBytes("UMID"), "\x00"), true
}

// LoudnessValue returns 100× the integrated loudness of the file in LUFS.
// Present from version 2 onward. Scaling interpretation is the caller's
// responsibility.
func (c *BextChunk) LoudnessValue() (int, bool) { return c.loudness("LoudnessValue") }

// LoudnessRange returns 100× the integrated loudness range in LU (v2+).
func (c *BextChunk) LoudnessRange() (int, bool) { return c.loudness("LoudnessRange") }

// MaxTruePeakLevel returns 100× the maximum true peak in dBTP (v2+).
func (c *BextChunk) MaxTruePeakLevel() (int, bool) { return c.loudness("MaxTruePeakLevel") }

// MaxMomentaryLoudness returns 100× the highest momentary loudness in LUFS (v2+).
func (c *BextChunk) MaxMomentaryLoudness() (int, bool) { return c.loudness("MaxMomentaryLoudness") }

// MaxShortTermLoudness returns 100× the highest short-term loudness in LUFS (v2+).
func (c *BextChunk) MaxShortTermLoudness() (int, bool) { return c.loudness("MaxShortTermLoudness") }

func (c *BextChunk) loudness(field string) (int, bool) {
	if c.version < 2 {
		return 0, false
	}

	return int(c.fieldInt(field)), true
}

// SetLoudnessValue stores 100× the integrated loudness (v2 chunks only).
func (c *BextChunk) SetLoudnessValue(v int) error { return c.setLoudness("LoudnessValue", v) }

// SetLoudnessRange stores 100× the loudness range (v2 chunks only).
func (c *BextChunk) SetLoudnessRange(v int) error { return c.setLoudness("LoudnessRange", v) }

// SetMaxTruePeakLevel stores 100× the maximum true peak (v2 chunks only).
func (c *BextChunk) SetMaxTruePeakLevel(v int) error { return c.setLoudness("MaxTruePeakLevel", v) }

func (c *BextChunk) setLoudness(field string, v int) error {
	if c.version < 2 {
		return fmt.Errorf("field %q requires bext version 2, chunk is version %d", field, c.version)
	}

	return c.setFieldInt(field, int64(v))
}

func (c *BextChunk) String() string {
	return fmt.Sprintf(`<BWF "bext" chunk v%d: %d bytes>`, c.version, c.Size())
}
