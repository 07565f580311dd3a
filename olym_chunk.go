package wave

import "fmt"

// OlymChunk is the decoded "olym" vendor chunk written by Olympus linear PCM
// recorders (LS-5, LS-10, LS-11). The layout is documented incompletely
// upstream (https://exiftool.org/TagNames/Olympus.html#WAV); bytes outside
// the known fields are left opaque.
type OlymChunk struct {
	chunkData
}

// olym duration field sits near the end of the chunk.
const olymDurationOff = 520

// NewOlymChunk decodes raw "olym" chunk bytes.
func NewOlymChunk(b []byte) (*OlymChunk, error) {
	cd, err := newChunkData(b)
	if err != nil {
		return nil, err
	}

	c := &OlymChunk{chunkData: cd}
	if err := c.requireID("olym", "olym"); err != nil {
		return nil, err
	}

	if err := c.requireLen(olymDurationOff+4, "olym"); err != nil {
		return nil, err
	}

	c.setField("Model", 20, 14)
	c.setField("FileNumber", 36, 4)
	c.setField("DateTimeOriginal", 46, 12)
	c.setField("DateTimeEnd", 58, 12)
	c.setField("RecordingTime", 70, 6)
	c.setField("Duration", olymDurationOff, 4)

	return c, nil
}

func (c *OlymChunk) Kind() ChunkKind { return KindOlym }

// Model returns the recorder model string, e.g. "LS-11".
func (c *OlymChunk) Model() string { return c.fieldString("Model") }

// FileNumber returns the recorder's file counter.
func (c *OlymChunk) FileNumber() int { return int(c.fieldUint("FileNumber")) }

// DateTimeOriginal returns the recording start date/time string.
func (c *OlymChunk) DateTimeOriginal() string { return c.fieldString("DateTimeOriginal") }

// DateTimeEnd returns the recording end date/time string.
func (c *OlymChunk) DateTimeEnd() string { return c.fieldString("DateTimeEnd") }

// RecordingTime returns the recording time string.
func (c *OlymChunk) RecordingTime() string { return c.fieldString("RecordingTime") }

// DurationMillis returns the recording duration in milliseconds.
func (c *OlymChunk) DurationMillis() int { return int(c.fieldUint("Duration")) }

func (c *OlymChunk) String() string {
	return fmt.Sprintf(`<WAVE "olym" chunk: %d bytes>`, c.Size())
}
