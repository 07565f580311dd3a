// This tool prints the stream geometry and decoded metadata of the passed
// WAVE files. Multiple files are inspected concurrently.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/pwessels/wave"
)

const missingPathMessage = "You must pass the path of at least one WAVE file to inspect"

var errMissingPath = errors.New("missing path argument")

func main() {
	err := run(context.Background(), os.Args[1:], os.Stdout)
	if err == nil {
		return
	}

	if errors.Is(err, errMissingPath) {
		fmt.Println(missingPathMessage)
		os.Exit(1)
	}

	log.Fatal(err)
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 1 {
		return errMissingPath
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	reports := make([][]byte, len(args))

	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			report, err := inspect(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			reports[i] = report

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for _, report := range reports {
		if _, err := out.Write(report); err != nil {
			return err
		}
	}

	return nil
}

func inspect(path string) ([]byte, error) {
	f, err := wave.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := &bytes.Buffer{}

	fmt.Fprintf(buf, "%s\n", path)

	for _, w := range f.Container().Warnings() {
		fmt.Fprintf(buf, "  warning: %s\n", w)
	}

	fmt.Fprintf(buf, "  Encoding: %s\n", f.Encoding())
	fmt.Fprintf(buf, "  Channels: %d\n", f.NumChannels())
	fmt.Fprintf(buf, "  Sample rate: %d Hz\n", f.SampleRate())
	fmt.Fprintf(buf, "  Bit depth: %d\n", f.BitsPerSample())
	fmt.Fprintf(buf, "  Frames: %d\n", f.NumFrames())
	fmt.Fprintf(buf, "  Duration: %s\n", f.Duration())
	fmt.Fprintf(buf, "  Chunks: %v\n", f.Container().ChunkIDs())

	meta, err := f.Metadata()
	if err != nil {
		return nil, err
	}

	writeMetadata(buf, meta)

	return buf.Bytes(), nil
}

func writeMetadata(out io.Writer, meta map[string]wave.Chunk) {
	ids := make([]string, 0, len(meta))
	for id := range meta {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	for _, id := range ids {
		switch c := meta[id].(type) {
		case *wave.BextChunk:
			fmt.Fprintf(out, "  bext (v%d):\n", c.Version())
			fmt.Fprintf(out, "    Description: %s\n", c.Description())
			fmt.Fprintf(out, "    Originator: %s\n", c.Originator())
			fmt.Fprintf(out, "    OriginationDate: %s\n", c.OriginationDate())
			fmt.Fprintf(out, "    OriginationTime: %s\n", c.OriginationTime())
			fmt.Fprintf(out, "    TimeReference: %d\n", c.TimeReference())

			if umid, ok := c.UMID(); ok {
				fmt.Fprintf(out, "    UMID: %x\n", umid)
			}

			if lv, ok := c.LoudnessValue(); ok {
				fmt.Fprintf(out, "    LoudnessValue: %.2f LUFS\n", float64(lv)/100)
			}
		case *wave.ListInfoChunk:
			fmt.Fprintln(out, "  LIST/INFO:")

			for _, field := range c.Fields() {
				v, _ := c.Field(field)
				fmt.Fprintf(out, "    %s: %s\n", field, v)
			}
		case *wave.OlymChunk:
			fmt.Fprintln(out, "  olym:")
			fmt.Fprintf(out, "    Model: %s\n", c.Model())
			fmt.Fprintf(out, "    FileNumber: %d\n", c.FileNumber())
			fmt.Fprintf(out, "    DateTimeOriginal: %s\n", c.DateTimeOriginal())
			fmt.Fprintf(out, "    Duration: %d ms\n", c.DurationMillis())
		case *wave.IXMLChunk:
			fmt.Fprintf(out, "  iXML: %d bytes\n", len(c.XML()))
		}
	}
}
