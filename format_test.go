package wave

import (
	"errors"
	"testing"
	"time"
)

func resolveTestFile(t *testing.T, chunks ...testChunk) (*StreamGeometry, error) {
	t.Helper()

	c, err := Open(writeTestFile(t, buildRIFF(t, chunks...)))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer c.Close()

	return ResolveFormat(c)
}

func TestResolveFormatPCM16(t *testing.T) {
	samples := pcm16Samples(0, 0, 1, 1, 2, 2, 3, 3) // 4 stereo frames

	geo, err := resolveTestFile(t,
		fmtChunk(t, wavFormatPCM, 2, 44100, 16),
		dataChunk(samples),
	)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if geo.Encoding != EncodingPCM16 || geo.Encoding.String() != "PCM_16" {
		t.Fatalf("encoding: %v", geo.Encoding)
	}

	if geo.NumChannels != 2 || geo.SampleRate != 44100 || geo.BitsPerSample != 16 || geo.BlockAlign != 4 {
		t.Fatalf("geometry: %+v", geo)
	}

	// data chunk starts after the 12-byte RIFF header and the 24-byte fmt chunk
	if geo.AudioDataOffset != 12+24+8 {
		t.Fatalf("audio data offset: %d", geo.AudioDataOffset)
	}

	if geo.AudioDataSize != int64(len(samples)) {
		t.Fatalf("audio data size: %d", geo.AudioDataSize)
	}

	if geo.NumFrames != 4 {
		t.Fatalf("frames: %d", geo.NumFrames)
	}

	f := geo.Format()
	if f.NumChannels != 2 || f.SampleRate != 44100 {
		t.Fatalf("audio format: %+v", f)
	}
}

func TestResolveFormatEncodingTable(t *testing.T) {
	cases := []struct {
		tag, bits int
		want      Encoding
		id        string
	}{
		{wavFormatPCM, 8, EncodingPCMU8, "PCM_U8"},
		{wavFormatPCM, 16, EncodingPCM16, "PCM_16"},
		{wavFormatPCM, 24, EncodingPCM24, "PCM_24"},
		{wavFormatPCM, 32, EncodingPCM32, "PCM_32"},
		{wavFormatIEEEFloat, 32, EncodingFloat32, "FLOAT"},
		{wavFormatIEEEFloat, 64, EncodingFloat64, "DOUBLE"},
	}

	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			geo, err := resolveTestFile(t,
				fmtChunk(t, tc.tag, 1, 48000, tc.bits),
				dataChunk(make([]byte, 8*tc.bits/8)),
			)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}

			if geo.Encoding != tc.want || geo.Encoding.String() != tc.id {
				t.Fatalf("encoding: %v (%s)", geo.Encoding, geo.Encoding)
			}

			if geo.NumFrames != 8 {
				t.Fatalf("frames: %d", geo.NumFrames)
			}
		})
	}
}

func TestResolveFormatExtensible(t *testing.T) {
	geo, err := resolveTestFile(t,
		fmtExtensibleChunk(t, wavFormatPCM, 2, 48000, 24),
		dataChunk(make([]byte, 60)),
	)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if geo.FormatTag != wavFormatPCM {
		t.Fatalf("effective tag: %d", geo.FormatTag)
	}

	if geo.Encoding != EncodingPCM24 {
		t.Fatalf("encoding: %v", geo.Encoding)
	}

	if geo.NumFrames != 10 {
		t.Fatalf("frames: %d", geo.NumFrames)
	}
}

func TestResolveFormatUnsupportedBits(t *testing.T) {
	_, err := resolveTestFile(t,
		fmtChunk(t, wavFormatPCM, 1, 8000, 12),
		dataChunk(make([]byte, 4)),
	)
	if !errors.Is(err, ErrUnsupportedEncoding) {
		t.Fatalf("got %v, want ErrUnsupportedEncoding", err)
	}
}

func TestResolveFormatCompressedTagUsesFact(t *testing.T) {
	// ADPCM has no decode path but geometry resolution must not crash:
	// with a fact chunk present the failure is the encoding, not the fact
	_, err := resolveTestFile(t,
		fmtChunk(t, 2, 1, 8000, 4),
		factChunk(100),
		dataChunk(make([]byte, 50)),
	)
	if !errors.Is(err, ErrUnsupportedEncoding) {
		t.Fatalf("got %v, want ErrUnsupportedEncoding", err)
	}
}

func TestResolveFormatCompressedTagMissingFact(t *testing.T) {
	_, err := resolveTestFile(t,
		fmtChunk(t, 2, 1, 8000, 4),
		dataChunk(make([]byte, 50)),
	)
	if !errors.Is(err, ErrMissingFactChunk) {
		t.Fatalf("got %v, want ErrMissingFactChunk", err)
	}
}

func TestResolveFormatMissingFmt(t *testing.T) {
	_, err := resolveTestFile(t, dataChunk(make([]byte, 4)))
	if !errors.Is(err, ErrMissingFmtChunk) {
		t.Fatalf("got %v, want ErrMissingFmtChunk", err)
	}
}

func TestResolveFormatMissingData(t *testing.T) {
	_, err := resolveTestFile(t, fmtChunk(t, wavFormatPCM, 1, 8000, 16))
	if !errors.Is(err, ErrMissingDataChunk) {
		t.Fatalf("got %v, want ErrMissingDataChunk", err)
	}
}

func TestResolveFormatFrameCountBound(t *testing.T) {
	// 10 bytes of data with a 4-byte block align: the partial trailing
	// frame is truncated
	geo, err := resolveTestFile(t,
		fmtChunk(t, wavFormatPCM, 2, 8000, 16),
		dataChunk(make([]byte, 10)),
	)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}

	if geo.NumFrames != 2 {
		t.Fatalf("frames: %d", geo.NumFrames)
	}

	if int64(geo.NumFrames*geo.BlockAlign) > geo.AudioDataSize {
		t.Fatalf("frames*blockalign %d exceeds data size %d",
			geo.NumFrames*geo.BlockAlign, geo.AudioDataSize)
	}
}

func TestStreamGeometryDuration(t *testing.T) {
	geo := &StreamGeometry{NumFrames: 24000, SampleRate: 48000}
	if geo.Duration() != 500*time.Millisecond {
		t.Fatalf("duration: %s", geo.Duration())
	}

	var nilGeo *StreamGeometry
	if nilGeo.Duration() != 0 {
		t.Fatal("nil geometry must have zero duration")
	}
}

func TestEncodingBytesPerSample(t *testing.T) {
	cases := map[Encoding]int{
		EncodingPCMU8:   1,
		EncodingPCM16:   2,
		EncodingPCM24:   3,
		EncodingPCM32:   4,
		EncodingFloat32: 4,
		EncodingFloat64: 8,
		EncodingUnknown: 0,
	}

	for enc, want := range cases {
		if got := enc.BytesPerSample(); got != want {
			t.Fatalf("%s: got %d want %d", enc, got, want)
		}
	}
}
