// Package wave reads RIFF/WAVE audio containers.
//
// The package locates tagged chunks inside a WAVE file, decodes format and
// metadata chunks (fmt, fact, bext v0/v1/v2, iXML, olym, LIST/INFO) into
// typed field sets, and serves time-indexed sample reads backed by a memory
// mapping. Supported sample encodings are unsigned 8-bit, signed 16/24/32-bit
// PCM, and 32/64-bit IEEE float; decoded values are normalized float64.
//
// Typical use goes through the File façade:
//
//	f, err := wave.OpenFile("recording.wav")
//	if err != nil {
//		// ...
//	}
//	defer f.Close()
//
//	frames, err := f.ReadFrames(0, f.NumFrames())
//
// The lower layers (Container for chunk access, ResolveFormat for stream
// geometry, SampleReader for mapped reads) are exported for callers that
// need them individually.
//
// The package never writes to the underlying file. Compressed WAVE
// encodings and RIFF forms other than WAVE are out of scope.
package wave
