package wave

import "fmt"

// IXMLChunk is the decoded "iXML" chunk. The entire body is one XML
// document, returned verbatim including the XML declaration.
// See http://www.gallery.co.uk/ixml/.
type IXMLChunk struct {
	chunkData
}

// NewIXMLChunk decodes raw "iXML" chunk bytes.
func NewIXMLChunk(b []byte) (*IXMLChunk, error) {
	cd, err := newChunkData(b)
	if err != nil {
		return nil, err
	}

	c := &IXMLChunk{chunkData: cd}
	if err := c.requireID("iXML", "iXML"); err != nil {
		return nil, err
	}

	c.setField("xmlstr", 8, len(c.data)-8)

	return c, nil
}

func (c *IXMLChunk) Kind() ChunkKind { return KindIXML }

// XML returns the complete iXML text.
func (c *IXMLChunk) XML() string { return c.fieldString("xmlstr") }

func (c *IXMLChunk) String() string {
	return fmt.Sprintf(`<WAVE "iXML" chunk: %d bytes>`, c.Size())
}
