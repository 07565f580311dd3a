package wave

import (
	"encoding/binary"
	"fmt"
)

// WAVE format tags used by this package. Compressed tags are recognized for
// geometry resolution but have no decode path.
const (
	wavFormatPCM        = 1
	wavFormatIEEEFloat  = 3
	wavFormatExtensible = 0xFFFE
)

// fmtCoreLen is the 8-byte header plus the fixed 16-byte fmt body.
const fmtCoreLen = 24

// FmtChunk is the decoded "fmt " chunk. When the chunk body exceeds the
// fixed 16 bytes, the WAVE_FORMAT_EXTENSIBLE tail (extension size, valid
// bits, channel mask, sub-format GUID) is exposed as well.
type FmtChunk struct {
	chunkData
	extended bool
}

// NewFmtChunk decodes raw "fmt " chunk bytes.
func NewFmtChunk(b []byte) (*FmtChunk, error) {
	cd, err := newChunkData(b)
	if err != nil {
		return nil, err
	}

	c := &FmtChunk{chunkData: cd}
	if err := c.requireID("fmt", `"fmt "`); err != nil {
		return nil, err
	}

	if err := c.requireLen(fmtCoreLen, "fmt"); err != nil {
		return nil, err
	}

	c.setField("tag", 8, 2)
	c.setField("nchannels", 10, 2)
	c.setField("samplingrate", 12, 4)
	c.setField("avgbytespersecond", 16, 4)
	c.setField("blockalign", 20, 2)
	c.setField("bitspersample", 22, 2)

	if len(c.data) > fmtCoreLen {
		c.extended = true
		c.setField("extensionsize", 24, 2)
		c.setField("validbitspersample", 26, 2)
		c.setField("channelmask", 28, 4)
		c.setField("subformatGUID", 32, 16)
	}

	return c, nil
}

func (c *FmtChunk) Kind() ChunkKind { return KindFmt }

// Tag returns the raw format tag as stored in the fixed fmt body. For
// extensible files this reads 0xFFFE; use EffectiveTag for the true format.
func (c *FmtChunk) Tag() uint16 { return uint16(c.fieldUint("tag")) }

func (c *FmtChunk) NumChannels() int    { return int(c.fieldUint("nchannels")) }
func (c *FmtChunk) SampleRate() int     { return int(c.fieldUint("samplingrate")) }
func (c *FmtChunk) AvgBytesPerSec() int { return int(c.fieldUint("avgbytespersecond")) }
func (c *FmtChunk) BlockAlign() int     { return int(c.fieldUint("blockalign")) }
func (c *FmtChunk) BitsPerSample() int  { return int(c.fieldUint("bitspersample")) }

// Extended reports whether the chunk carries a format extension tail.
func (c *FmtChunk) Extended() bool { return c.extended }

// ExtensionSize returns the declared extension size, or 0 without a tail.
func (c *FmtChunk) ExtensionSize() int {
	if !c.extended {
		return 0
	}

	return int(c.fieldUint("extensionsize"))
}

// ValidBitsPerSample returns the extensible valid-bits field, or 0 without
// a tail.
func (c *FmtChunk) ValidBitsPerSample() int {
	if !c.extended {
		return 0
	}

	return int(c.fieldUint("validbitspersample"))
}

// ChannelMask returns the extensible speaker-position mask, or 0 without a
// tail.
func (c *FmtChunk) ChannelMask() uint32 {
	if !c.extended {
		return 0
	}

	return uint32(c.fieldUint("channelmask"))
}

// SubFormatGUID returns the 16-byte extensible sub-format GUID and whether
// the chunk carries one.
func (c *FmtChunk) SubFormatGUID() ([16]byte, bool) {
	var guid [16]byte
	if !c.extended {
		return guid, false
	}

	copy(guid[:], c.fieldBytes("subformatGUID"))

	return guid, true
}

// EffectiveTag resolves the WAVE_FORMAT_EXTENSIBLE indirection: when the
// fixed tag is 0xFFFE the true format tag is the first two bytes of the
// sub-format GUID.
func (c *FmtChunk) EffectiveTag() uint16 {
	if guid, ok := c.SubFormatGUID(); ok && c.Tag() == wavFormatExtensible {
		return binary.LittleEndian.Uint16(guid[:2])
	}

	return c.Tag()
}

func (c *FmtChunk) String() string {
	return fmt.Sprintf(`<WAVE "fmt " chunk: %d bytes>`, c.Size())
}
