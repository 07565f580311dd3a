package wave

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrChunkKindMismatch is returned when chunk bytes are decoded as the
	// wrong chunk kind.
	ErrChunkKindMismatch = errors.New("chunk kind mismatch")
	// ErrTruncatedChunk is returned when a chunk's declared size runs past
	// the end of the file, or when a chunk body is too short for its fixed
	// layout.
	ErrTruncatedChunk = errors.New("truncated chunk")
)

// ChunkKind identifies the decoded type of a chunk.
type ChunkKind int

const (
	// KindRaw is the fallback for chunk ids without a dedicated decoder.
	KindRaw ChunkKind = iota
	KindFmt
	KindFact
	KindBext
	KindIXML
	KindOlym
	KindList
	KindListInfo
)

func (k ChunkKind) String() string {
	switch k {
	case KindFmt:
		return "fmt"
	case KindFact:
		return "fact"
	case KindBext:
		return "bext"
	case KindIXML:
		return "iXML"
	case KindOlym:
		return "olym"
	case KindList:
		return "LIST"
	case KindListInfo:
		return "LISTINFO"
	default:
		return "raw"
	}
}

// Chunk is a decoded RIFF chunk. Every chunk owns a private copy of its
// bytes (header, body and pad byte); mutating accessors on typed chunks
// write into that copy only, never through to the file.
type Chunk interface {
	// ID is the trimmed FourCC of the chunk, e.g. "fmt".
	ID() string
	// Kind reports which typed decoder produced the chunk.
	Kind() ChunkKind
	// Size is the full chunk length in bytes: 8-byte header plus body,
	// rounded up to an even boundary.
	Size() int
	// BodySize is the body length declared in the chunk header.
	BodySize() int
	// Bytes exposes the chunk's private byte copy.
	Bytes() []byte
}

// fieldDef locates one named field inside a chunk, relative to chunk start
// (header included).
type fieldDef struct {
	name   string
	offset int
	width  int
}

// chunkData is the shared fixed-layout field table embedded by every typed
// chunk. The per-kind constructors install the field map once; it never
// changes afterward.
type chunkData struct {
	id       string
	fourCC   [4]byte
	data     []byte
	bodySize int
	fields   []fieldDef
}

func newChunkData(b []byte) (chunkData, error) {
	if len(b) < 8 {
		return chunkData{}, fmt.Errorf("%w: %d bytes is too short for a chunk header", ErrTruncatedChunk, len(b))
	}

	c := chunkData{data: append([]byte(nil), b...)}
	copy(c.fourCC[:], b[:4])
	c.id = strings.TrimRight(string(c.fourCC[:]), " ")

	size, err := uintFromBytes(b[4:8])
	if err != nil {
		return chunkData{}, err
	}

	c.bodySize = int(size)

	return c, nil
}

func (c *chunkData) ID() string    { return c.id }
func (c *chunkData) Size() int     { return len(c.data) }
func (c *chunkData) BodySize() int { return c.bodySize }
func (c *chunkData) Bytes() []byte { return c.data }

func (c *chunkData) FieldNames() []string {
	names := make([]string, len(c.fields))
	for i, f := range c.fields {
		names[i] = f.name
	}

	return names
}

func (c *chunkData) requireID(id string, kind string) error {
	if c.id != id {
		return fmt.Errorf("%w: %q is not a %s chunk", ErrChunkKindMismatch, c.id, kind)
	}

	return nil
}

func (c *chunkData) requireLen(n int, kind string) error {
	if len(c.data) < n {
		return fmt.Errorf("%w: %s chunk is %d bytes, need %d", ErrTruncatedChunk, kind, len(c.data), n)
	}

	return nil
}

func (c *chunkData) lookup(name string) (fieldDef, bool) {
	for _, f := range c.fields {
		if f.name == name {
			return f, true
		}
	}

	return fieldDef{}, false
}

// setField installs or overrides a field definition. Later definitions win,
// mirroring schema upgrades such as bext v1 shrinking the v0 Reserved span.
func (c *chunkData) setField(name string, offset, width int) {
	for i := range c.fields {
		if c.fields[i].name == name {
			c.fields[i] = fieldDef{name: name, offset: offset, width: width}
			return
		}
	}

	c.fields = append(c.fields, fieldDef{name: name, offset: offset, width: width})
}

func (c *chunkData) fieldBytes(name string) []byte {
	f, ok := c.lookup(name)
	if !ok || f.offset+f.width > len(c.data) {
		return nil
	}

	return c.data[f.offset : f.offset+f.width]
}

func (c *chunkData) fieldUint(name string) uint64 {
	// widths are fixed by the per-kind constructors, so the conversion
	// cannot fail on a well-formed table
	v, _ := uintFromBytes(c.fieldBytes(name))
	return v
}

func (c *chunkData) fieldInt(name string) int64 {
	v, _ := intFromBytes(c.fieldBytes(name))
	return v
}

func (c *chunkData) fieldString(name string) string {
	return asciiFromBytes(c.fieldBytes(name))
}

func (c *chunkData) setFieldString(name, s string) error {
	f, ok := c.lookup(name)
	if !ok {
		return fmt.Errorf("unknown field %q in %s chunk", name, c.id)
	}

	b := make([]byte, f.width)
	copy(b, s)
	copy(c.data[f.offset:f.offset+f.width], b)

	return nil
}

func (c *chunkData) setFieldUint(name string, v uint64) error {
	f, ok := c.lookup(name)
	if !ok {
		return fmt.Errorf("unknown field %q in %s chunk", name, c.id)
	}

	b, err := uintToBytes(v, f.width)
	if err != nil {
		return err
	}

	copy(c.data[f.offset:f.offset+f.width], b)

	return nil
}

func (c *chunkData) setFieldInt(name string, v int64) error {
	f, ok := c.lookup(name)
	if !ok {
		return fmt.Errorf("unknown field %q in %s chunk", name, c.id)
	}

	b, err := intToBytes(v, f.width)
	if err != nil {
		return err
	}

	copy(c.data[f.offset:f.offset+f.width], b)

	return nil
}

// RawChunk is the opaque fallback for chunk ids without a dedicated decoder.
type RawChunk struct {
	chunkData
}

// NewRawChunk wraps chunk bytes without interpreting the body.
func NewRawChunk(b []byte) (*RawChunk, error) {
	c, err := newChunkData(b)
	if err != nil {
		return nil, err
	}

	return &RawChunk{chunkData: c}, nil
}

func (c *RawChunk) Kind() ChunkKind { return KindRaw }

// Body returns the chunk body (bytes after the 8-byte header).
func (c *RawChunk) Body() []byte { return c.data[8:] }

func (c *RawChunk) String() string {
	return fmt.Sprintf("<RIFF chunk %q: %d bytes>", c.id, c.Size())
}
