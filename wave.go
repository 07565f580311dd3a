package wave

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-audio/audio"
)

// File ties the container, the resolved stream geometry and the sample
// reader together behind one handle. Metadata chunks are decoded lazily, on
// demand, by id.
type File struct {
	container *Container
	geo       *StreamGeometry
	reader    *SampleReader
}

// OpenFile opens a WAVE file for reading: it scans the chunk table, resolves
// the stream geometry and prepares a sample reader. The memory mapping is
// not created until the first frame read.
func OpenFile(path string) (*File, error) {
	c, err := Open(path)
	if err != nil {
		return nil, err
	}

	geo, err := ResolveFormat(c)
	if err != nil {
		c.Close()
		return nil, err
	}

	reader, err := NewSampleReader(path, geo)
	if err != nil {
		c.Close()
		return nil, err
	}

	return &File{container: c, geo: geo, reader: reader}, nil
}

// Container exposes the underlying chunk table for raw chunk access.
func (f *File) Container() *Container { return f.container }

// Reader exposes the sample reader, for callers that want to hold the
// mapping open across many reads.
func (f *File) Reader() *SampleReader { return f.reader }

// Geometry returns a copy of the resolved stream geometry.
func (f *File) Geometry() StreamGeometry { return *f.geo }

func (f *File) NumChannels() int      { return f.geo.NumChannels }
func (f *File) SampleRate() int       { return f.geo.SampleRate }
func (f *File) BitsPerSample() int    { return f.geo.BitsPerSample }
func (f *File) NumFrames() int        { return f.geo.NumFrames }
func (f *File) Encoding() Encoding    { return f.geo.Encoding }
func (f *File) Format() *audio.Format { return f.geo.Format() }

// Duration returns the audio length as wall-clock time.
func (f *File) Duration() time.Duration { return f.geo.Duration() }

// ReadFrames decodes frames [start, end) into a frame × channel matrix of
// normalized float64 samples; see SampleReader.ReadFrames.
func (f *File) ReadFrames(start, end int, channels ...int) ([][]float64, error) {
	return f.reader.ReadFrames(start, end, channels...)
}

// ReadBuffer decodes frames [start, end) into an interleaved go-audio float
// buffer; see SampleReader.ReadBuffer.
func (f *File) ReadBuffer(start, end int) (*audio.FloatBuffer, error) {
	return f.reader.ReadBuffer(start, end)
}

// Fmt decodes the "fmt " chunk.
func (f *File) Fmt() (*FmtChunk, error) {
	c, err := f.container.DecodeChunk("fmt")
	if err != nil {
		return nil, err
	}

	return c.(*FmtChunk), nil
}

// Fact decodes the "fact" chunk, if present.
func (f *File) Fact() (*FactChunk, error) {
	c, err := f.container.DecodeChunk("fact")
	if err != nil {
		return nil, err
	}

	return c.(*FactChunk), nil
}

// BroadcastExtension decodes the "bext" chunk, if present.
func (f *File) BroadcastExtension() (*BextChunk, error) {
	c, err := f.container.DecodeChunk("bext")
	if err != nil {
		return nil, err
	}

	return c.(*BextChunk), nil
}

// IXML decodes the "iXML" chunk, if present.
func (f *File) IXML() (*IXMLChunk, error) {
	c, err := f.container.DecodeChunk("iXML")
	if err != nil {
		return nil, err
	}

	return c.(*IXMLChunk), nil
}

// Olym decodes the "olym" vendor chunk, if present.
func (f *File) Olym() (*OlymChunk, error) {
	c, err := f.container.DecodeChunk("olym")
	if err != nil {
		return nil, err
	}

	return c.(*OlymChunk), nil
}

// ListInfo decodes the LIST/INFO chunk, if present.
func (f *File) ListInfo() (*ListInfoChunk, error) {
	c, err := f.container.DecodeChunk(listInfoKey)
	if err != nil {
		return nil, err
	}

	return c.(*ListInfoChunk), nil
}

// Metadata decodes every chunk except "data" (which can be large) and
// returns them keyed by id.
func (f *File) Metadata() (map[string]Chunk, error) {
	chunks := make(map[string]Chunk)

	for _, id := range f.container.ChunkIDs() {
		if id == "data" {
			continue
		}

		c, err := f.container.DecodeChunk(id)
		if err != nil {
			return nil, fmt.Errorf("failed to decode chunk %q: %w", id, err)
		}

		chunks[id] = c
	}

	return chunks, nil
}

// Close releases the sample mapping and the container's file handle.
func (f *File) Close() error {
	if f == nil {
		return nil
	}

	return errors.Join(f.reader.Close(), f.container.Close())
}

func (f *File) String() string {
	return fmt.Sprintf("<WAVE file %q: %s, %d channels, %s>",
		filepath.Base(f.container.Path()), f.Duration().Round(time.Millisecond), f.NumChannels(), f.Encoding())
}
