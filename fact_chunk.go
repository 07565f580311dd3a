package wave

import "fmt"

// FactChunk is the decoded "fact" chunk. The first four body bytes carry the
// frame count; any remaining bytes are format-specific and left opaque.
type FactChunk struct {
	chunkData
}

// NewFactChunk decodes raw "fact" chunk bytes.
func NewFactChunk(b []byte) (*FactChunk, error) {
	cd, err := newChunkData(b)
	if err != nil {
		return nil, err
	}

	c := &FactChunk{chunkData: cd}
	if err := c.requireID("fact", "fact"); err != nil {
		return nil, err
	}

	if err := c.requireLen(12, "fact"); err != nil {
		return nil, err
	}

	c.setField("nframes", 8, 4)

	return c, nil
}

func (c *FactChunk) Kind() ChunkKind { return KindFact }

// NumFrames returns the frame count declared by the chunk.
func (c *FactChunk) NumFrames() int { return int(c.fieldUint("nframes")) }

func (c *FactChunk) String() string {
	return fmt.Sprintf(`<WAVE "fact" chunk: %d bytes>`, c.Size())
}
