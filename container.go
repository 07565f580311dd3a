package wave

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-audio/riff"
)

var (
	// ErrNotRIFFFile is returned when a file does not start with a
	// RIFF/WAVE header.
	ErrNotRIFFFile = errors.New("not a RIFF/WAVE file")
	// ErrUnknownChunk is returned when a chunk id is not present in the
	// container.
	ErrUnknownChunk = errors.New("unknown chunk")

	cidList = [4]byte{'L', 'I', 'S', 'T'}
	cidInfo = [4]byte{'I', 'N', 'F', 'O'}
)

// headerLen is the RIFF header: "RIFF", u32 body size, form type.
const headerLen = 12

// listInfoKey is the synthetic table key for LIST chunks whose inner catalog
// type is INFO.
const listInfoKey = "LISTINFO"

// ChunkLocation is the byte range of one chunk: Start is the file offset of
// the chunk id, Size covers header, body and pad byte.
type ChunkLocation struct {
	ID    string
	Start int64
	Size  int64
}

// Container is an opened RIFF/WAVE file plus its chunk table. The table is
// built once at open time and is immutable afterward unless Rescan is
// called. A Container owns its file handle; Close releases it.
//
// A Container is safe for concurrent read-only use; callers needing
// concurrent sample access should use independent SampleReader instances.
type Container struct {
	path   string
	f      *os.File
	parser *riff.Parser

	formType [4]byte
	bodySize uint32
	fileSize int64

	locations []ChunkLocation
	index     map[string]int
	warnings  []string
}

// Open opens a RIFF/WAVE file and scans its chunk table.
//
// A mismatch between the declared RIFF body size and the actual file size is
// recorded as a warning rather than an error: real-world recorders routinely
// leave the header field stale.
func Open(path string) (*Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	c := &Container{
		path:     path,
		f:        f,
		parser:   riff.New(f),
		fileSize: fi.Size(),
	}

	if err := c.readHeader(); err != nil {
		f.Close()
		return nil, err
	}

	if err := c.Rescan(); err != nil {
		f.Close()
		return nil, err
	}

	return c, nil
}

func (c *Container) readHeader() error {
	id, size, err := c.parser.IDnSize()
	if err != nil {
		return fmt.Errorf("failed to read RIFF header: %w", err)
	}

	if id != riff.RiffID {
		return fmt.Errorf("%w: first four bytes read %q, not %q",
			ErrNotRIFFFile, string(id[:]), string(riff.RiffID[:]))
	}

	if _, err := io.ReadFull(c.f, c.formType[:]); err != nil {
		return fmt.Errorf("failed to read RIFF form type: %w", err)
	}

	if c.formType != riff.WavFormatID {
		return fmt.Errorf("%w: form type is %q, not %q",
			ErrNotRIFFFile, string(c.formType[:]), string(riff.WavFormatID[:]))
	}

	c.bodySize = size
	if int64(size)+8 != c.fileSize {
		c.warnings = append(c.warnings, fmt.Sprintf(
			"RIFF header body size (%d) does not match file size (%d), which should normally be body size + 8",
			size, c.fileSize))
	}

	return nil
}

// Rescan rebuilds the chunk table by walking the RIFF body from offset 12.
// Chunk sizes honor the even-padding rule; a LIST chunk with inner catalog
// type INFO is recorded under the synthetic key "LISTINFO". Duplicate ids
// keep the last occurrence.
func (c *Container) Rescan() error {
	c.locations = c.locations[:0]
	c.index = make(map[string]int)

	pos := int64(headerLen)
	for pos < c.fileSize {
		if _, err := c.f.Seek(pos, io.SeekStart); err != nil {
			return fmt.Errorf("failed to seek to chunk at offset %d: %w", pos, err)
		}

		id, bodySize, err := c.parser.IDnSize()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return fmt.Errorf("%w: chunk header at offset %d runs past end of file", ErrTruncatedChunk, pos)
			}

			return fmt.Errorf("failed to read chunk header at offset %d: %w", pos, err)
		}

		// all RIFF chunks are word aligned: an odd body is followed by a
		// zero pad byte not included in the declared size
		size := int64(8 + bodySize)
		if size%2 == 1 {
			size++
		}

		key := strings.TrimRight(string(id[:]), " ")

		if pos+size > c.fileSize {
			return fmt.Errorf("%w: chunk %q at offset %d declares %d bytes, past end of file (%d bytes)",
				ErrTruncatedChunk, key, pos, size, c.fileSize)
		}

		if id == cidList && bodySize >= 4 {
			var listType [4]byte
			if _, err := io.ReadFull(c.f, listType[:]); err != nil {
				return fmt.Errorf("failed to read LIST type at offset %d: %w", pos, err)
			}

			if listType == cidInfo {
				key = listInfoKey
			}
		}

		if i, ok := c.index[key]; ok {
			// last duplicate wins, original discovery position kept
			c.locations[i] = ChunkLocation{ID: key, Start: pos, Size: size}
		} else {
			c.locations = append(c.locations, ChunkLocation{ID: key, Start: pos, Size: size})
			c.index[key] = len(c.locations) - 1
		}

		pos += size
	}

	return nil
}

// ChunkIDs returns all chunk ids in discovery order.
func (c *Container) ChunkIDs() []string {
	ids := make([]string, len(c.locations))
	for i, loc := range c.locations {
		ids[i] = loc.ID
	}

	return ids
}

// ChunkLocation returns the byte range of the chunk with the given trimmed id.
func (c *Container) ChunkLocation(id string) (ChunkLocation, bool) {
	i, ok := c.index[id]
	if !ok {
		return ChunkLocation{}, false
	}

	return c.locations[i], true
}

// HasChunk reports whether a chunk with the given trimmed id is present.
func (c *Container) HasChunk(id string) bool {
	_, ok := c.index[id]
	return ok
}

// GetChunk reads and returns the exact byte span of a chunk (header, body
// and pad byte).
func (c *Container) GetChunk(id string) ([]byte, error) {
	loc, ok := c.ChunkLocation(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownChunk, id)
	}

	b := make([]byte, loc.Size)
	if _, err := c.f.ReadAt(b, loc.Start); err != nil {
		return nil, fmt.Errorf("failed to read chunk %q: %w", id, err)
	}

	return b, nil
}

// DecodeChunk reads a chunk and decodes it with the typed decoder matching
// its id. Ids without a dedicated decoder fall back to *RawChunk.
func (c *Container) DecodeChunk(id string) (Chunk, error) {
	b, err := c.GetChunk(id)
	if err != nil {
		return nil, err
	}

	switch id {
	case "fmt":
		return NewFmtChunk(b)
	case "fact":
		return NewFactChunk(b)
	case "bext":
		return NewBextChunk(b)
	case "iXML":
		return NewIXMLChunk(b)
	case "olym":
		return NewOlymChunk(b)
	case "LIST":
		return NewListChunk(b)
	case listInfoKey:
		return NewListInfoChunk(b)
	default:
		return NewRawChunk(b)
	}
}

// Path returns the file path the container was opened from.
func (c *Container) Path() string { return c.path }

// FormType returns the RIFF form type, "WAVE" for files accepted by Open.
func (c *Container) FormType() string { return string(c.formType[:]) }

// BodySize returns the RIFF body size declared in the file header.
func (c *Container) BodySize() uint32 { return c.bodySize }

// FileSize returns the size of the underlying file in bytes.
func (c *Container) FileSize() int64 { return c.fileSize }

// Warnings returns non-fatal conditions recorded while opening the file.
func (c *Container) Warnings() []string { return c.warnings }

// Close releases the underlying file handle.
func (c *Container) Close() error {
	if c == nil || c.f == nil {
		return nil
	}

	err := c.f.Close()
	c.f = nil

	if err != nil {
		return fmt.Errorf("failed to close %s: %w", c.path, err)
	}

	return nil
}

func (c *Container) String() string {
	return fmt.Sprintf("<RIFF file %q: %d bytes, %d chunks>", c.path, c.fileSize, len(c.locations))
}
