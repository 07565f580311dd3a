package wave

import "fmt"

// Common INFO sub-record ids, see http://bwfmetaedit.sourceforge.net/listinfo.html.
const (
	infoArtist       = "IART"
	infoTitle        = "INAM"
	infoComments     = "ICMT"
	infoCreationDate = "ICRD"
	infoCopyright    = "ICOP"
	infoSoftware     = "ISFT"
	infoEngineer     = "IENG"
	infoGenre        = "IGNR"
	infoProduct      = "IPRD"
	infoSource       = "ISRC"
	infoSubject      = "ISBJ"
	infoTrack        = "ITRK"
	infoTechnician   = "ITCH"
	infoKeywords     = "IKEY"
	infoMedium       = "IMED"
	infoLocation     = "IARL"
)

// ListChunk is a decoded "LIST" container chunk. Only the 4-byte catalog
// type is interpreted; use ListInfoChunk for LIST chunks of INFO type.
type ListChunk struct {
	chunkData
	listType string
}

// NewListChunk decodes raw "LIST" chunk bytes.
func NewListChunk(b []byte) (*ListChunk, error) {
	cd, err := newChunkData(b)
	if err != nil {
		return nil, err
	}

	c := &ListChunk{chunkData: cd}
	if err := c.requireID("LIST", "LIST"); err != nil {
		return nil, err
	}

	if err := c.requireLen(12, "LIST"); err != nil {
		return nil, err
	}

	c.listType = string(c.data[8:12])

	return c, nil
}

func (c *ListChunk) Kind() ChunkKind { return KindList }

// ListType returns the inner catalog type, e.g. "INFO" or "adtl".
func (c *ListChunk) ListType() string { return c.listType }

func (c *ListChunk) String() string {
	return fmt.Sprintf(`<WAVE "LIST" chunk, type %q: %d bytes>`, c.listType, c.Size())
}

// ListInfoChunk is a decoded LIST chunk of INFO type. Its sub-records
// (4-byte id, u32 size, body) are walked once at construction into the same
// field table other typed chunks use, so info fields are accessed by id.
type ListInfoChunk struct {
	ListChunk
}

// NewListInfoChunk decodes raw LIST/INFO chunk bytes.
func NewListInfoChunk(b []byte) (*ListInfoChunk, error) {
	lc, err := NewListChunk(b)
	if err != nil {
		return nil, err
	}

	c := &ListInfoChunk{ListChunk: *lc}
	if c.listType != "INFO" {
		return nil, fmt.Errorf(`%w: LIST chunk is of type %q, not "INFO"`, ErrChunkKindMismatch, c.listType)
	}

	// sub-records are not word aligned inside the LIST body; the walk stops
	// when less than a sub-record header remains (trailing pad byte)
	pos := 12
	for pos+8 <= len(c.data) {
		id := string(c.data[pos : pos+4])

		size, err := uintFromBytes(c.data[pos+4 : pos+8])
		if err != nil {
			return nil, err
		}

		if pos+8+int(size) > len(c.data) {
			return nil, fmt.Errorf("%w: INFO record %q at offset %d declares %d bytes past chunk end",
				ErrTruncatedChunk, id, pos, size)
		}

		c.setField(id, pos+8, int(size))
		pos += 8 + int(size)
	}

	return c, nil
}

func (c *ListInfoChunk) Kind() ChunkKind { return KindListInfo }

// Field returns the ASCII value of an INFO sub-record by id (e.g. "IART"),
// NUL padding stripped, and whether the record is present.
func (c *ListInfoChunk) Field(id string) (string, bool) {
	if _, ok := c.lookup(id); !ok {
		return "", false
	}

	return c.fieldString(id), true
}

// Fields returns the ids of all INFO sub-records in file order.
func (c *ListInfoChunk) Fields() []string { return c.FieldNames() }

func (c *ListInfoChunk) infoField(id string) string {
	s, _ := c.Field(id)
	return s
}

func (c *ListInfoChunk) Artist() string       { return c.infoField(infoArtist) }
func (c *ListInfoChunk) Title() string        { return c.infoField(infoTitle) }
func (c *ListInfoChunk) Comments() string     { return c.infoField(infoComments) }
func (c *ListInfoChunk) CreationDate() string { return c.infoField(infoCreationDate) }
func (c *ListInfoChunk) Copyright() string    { return c.infoField(infoCopyright) }
func (c *ListInfoChunk) Software() string     { return c.infoField(infoSoftware) }
func (c *ListInfoChunk) Engineer() string     { return c.infoField(infoEngineer) }
func (c *ListInfoChunk) Genre() string        { return c.infoField(infoGenre) }
func (c *ListInfoChunk) Product() string      { return c.infoField(infoProduct) }
func (c *ListInfoChunk) Source() string       { return c.infoField(infoSource) }
func (c *ListInfoChunk) Subject() string      { return c.infoField(infoSubject) }
func (c *ListInfoChunk) TrackNbr() string     { return c.infoField(infoTrack) }
func (c *ListInfoChunk) Technician() string   { return c.infoField(infoTechnician) }
func (c *ListInfoChunk) Keywords() string     { return c.infoField(infoKeywords) }
func (c *ListInfoChunk) Medium() string       { return c.infoField(infoMedium) }
func (c *ListInfoChunk) Location() string     { return c.infoField(infoLocation) }

func (c *ListInfoChunk) String() string {
	return fmt.Sprintf(`<WAVE "LIST" chunk, type "INFO": %d bytes, %d records>`, c.Size(), len(c.fields))
}
