package wave

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

type testChunk struct {
	id   string // 4-character FourCC
	body []byte
}

// buildRIFF assembles a synthetic WAVE file from chunks, honoring the
// even-padding rule and writing a consistent header body size.
func buildRIFF(t *testing.T, chunks ...testChunk) []byte {
	t.Helper()

	body := []byte("WAVE")

	for _, c := range chunks {
		if len(c.id) != 4 {
			t.Fatalf("chunk id %q is not 4 characters", c.id)
		}

		body = append(body, c.id...)
		body = binary.LittleEndian.AppendUint32(body, uint32(len(c.body)))
		body = append(body, c.body...)

		if len(c.body)%2 == 1 {
			body = append(body, 0)
		}
	}

	out := []byte("RIFF")
	out = binary.LittleEndian.AppendUint32(out, uint32(len(body)))

	return append(out, body...)
}

func writeTestFile(t *testing.T, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.wav")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	return path
}

func fmtChunk(t *testing.T, tag, channels, rate, bits int) testChunk {
	t.Helper()

	blockAlign := channels * bits / 8

	body := make([]byte, 0, 16)
	body = binary.LittleEndian.AppendUint16(body, uint16(tag))
	body = binary.LittleEndian.AppendUint16(body, uint16(channels))
	body = binary.LittleEndian.AppendUint32(body, uint32(rate))
	body = binary.LittleEndian.AppendUint32(body, uint32(rate*blockAlign))
	body = binary.LittleEndian.AppendUint16(body, uint16(blockAlign))
	body = binary.LittleEndian.AppendUint16(body, uint16(bits))

	return testChunk{id: "fmt ", body: body}
}

// fmtExtensibleChunk builds a WAVE_FORMAT_EXTENSIBLE fmt chunk whose
// sub-format GUID carries the passed effective tag.
func fmtExtensibleChunk(t *testing.T, effectiveTag, channels, rate, bits int) testChunk {
	t.Helper()

	base := fmtChunk(t, wavFormatExtensible, channels, rate, bits)

	body := base.body
	body = binary.LittleEndian.AppendUint16(body, 22) // extension size
	body = binary.LittleEndian.AppendUint16(body, uint16(bits))
	body = binary.LittleEndian.AppendUint32(body, 0x3) // channel mask

	guid := make([]byte, 16)
	binary.LittleEndian.PutUint16(guid, uint16(effectiveTag))
	copy(guid[2:], []byte{0x00, 0x00, 0x00, 0x00, 0x10, 0x00, 0x80, 0x00, 0x00, 0xAA, 0x00, 0x38, 0x9B, 0x71})

	return testChunk{id: "fmt ", body: append(body, guid...)}
}

func dataChunk(samples []byte) testChunk {
	return testChunk{id: "data", body: samples}
}

func factChunk(frames int) testChunk {
	body := binary.LittleEndian.AppendUint32(nil, uint32(frames))
	return testChunk{id: "fact", body: body}
}

// bextBody builds a minimal bext body (602 bytes, empty coding history) for
// the given version. Offsets below are body-relative (chunk offset minus 8).
func bextBody(t *testing.T, version int) []byte {
	t.Helper()

	body := make([]byte, 602)
	binary.LittleEndian.PutUint16(body[346:], uint16(version))

	return body
}

func setBextString(body []byte, off int, s string) {
	copy(body[off:], s)
}

// putInt16 stores a signed 16-bit value little-endian.
func putInt16(b []byte, v int16) {
	binary.LittleEndian.PutUint16(b, uint16(v))
}

func listInfoChunk(records ...[2]string) testChunk {
	body := []byte("INFO")

	for _, rec := range records {
		val := append([]byte(rec[1]), 0) // NUL terminated
		body = append(body, rec[0]...)
		body = binary.LittleEndian.AppendUint32(body, uint32(len(val)))
		body = append(body, val...)
	}

	return testChunk{id: "LIST", body: body}
}

func olymBody(t *testing.T) []byte {
	t.Helper()

	body := make([]byte, 516)
	copy(body[12:], "LS-11")                     // Model @20
	binary.LittleEndian.PutUint32(body[28:], 42) // FileNumber @36
	copy(body[38:], "240718120000")              // DateTimeOriginal @46
	copy(body[50:], "240718120330")              // DateTimeEnd @58
	copy(body[62:], "003030")                    // RecordingTime @70
	binary.LittleEndian.PutUint32(body[512:], 210000)

	return body
}

// pcm16Samples packs interleaved 16-bit samples little-endian.
func pcm16Samples(samples ...int16) []byte {
	out := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}

	return out
}

func float64AlmostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}

	return diff < 1e-9
}
