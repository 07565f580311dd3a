package main

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeMonoPCM16 assembles a minimal one-channel 16-bit WAVE file.
func writeMonoPCM16(t *testing.T, samples ...int16) string {
	t.Helper()

	body := &bytes.Buffer{}
	body.WriteString("WAVE")

	body.WriteString("fmt ")
	binary.Write(body, binary.LittleEndian, uint32(16))
	binary.Write(body, binary.LittleEndian, uint16(1))     // PCM
	binary.Write(body, binary.LittleEndian, uint16(1))     // channels
	binary.Write(body, binary.LittleEndian, uint32(44100)) // sample rate
	binary.Write(body, binary.LittleEndian, uint32(88200)) // avg bytes/sec
	binary.Write(body, binary.LittleEndian, uint16(2))     // block align
	binary.Write(body, binary.LittleEndian, uint16(16))    // bit depth

	body.WriteString("data")
	binary.Write(body, binary.LittleEndian, uint32(2*len(samples)))
	for _, s := range samples {
		binary.Write(body, binary.LittleEndian, s)
	}

	file := &bytes.Buffer{}
	file.WriteString("RIFF")
	binary.Write(file, binary.LittleEndian, uint32(body.Len()))
	file.Write(body.Bytes())

	path := filepath.Join(t.TempDir(), "test.wav")
	if err := os.WriteFile(path, file.Bytes(), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	return path
}

func TestRunRequiresPath(t *testing.T) {
	err := run(context.Background(), nil, &bytes.Buffer{})
	if !errors.Is(err, errMissingPath) {
		t.Fatalf("got %v, want errMissingPath", err)
	}
}

func TestRunInspectsFile(t *testing.T) {
	path := writeMonoPCM16(t, 0, 100, -100, 32767)

	out := &bytes.Buffer{}
	if err := run(context.Background(), []string{path}, out); err != nil {
		t.Fatalf("run: %v", err)
	}

	report := out.String()
	for _, want := range []string{
		path,
		"Encoding: PCM_16",
		"Channels: 1",
		"Sample rate: 44100 Hz",
		"Frames: 4",
	} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestRunKeepsArgumentOrder(t *testing.T) {
	first := writeMonoPCM16(t, 1)
	second := writeMonoPCM16(t, 2)

	out := &bytes.Buffer{}
	if err := run(context.Background(), []string{first, second}, out); err != nil {
		t.Fatalf("run: %v", err)
	}

	report := out.String()
	if strings.Index(report, first) > strings.Index(report, second) {
		t.Fatalf("reports out of order:\n%s", report)
	}
}

func TestRunReportsBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-wav.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatalf("write test file: %v", err)
	}

	err := run(context.Background(), []string{path}, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error naming %q, got %v", path, err)
	}
}
