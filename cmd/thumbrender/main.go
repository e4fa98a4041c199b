// Command thumbrender replays a saved transform record against a capture and
// writes the exported thumbnail — the same render path the interactive
// editor uses.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"capture-thumb-editor/internal/editor"
	"capture-thumb-editor/internal/imgio"
	"capture-thumb-editor/internal/transform"
)

func main() {
	input := flag.String("input", "", "Capture file")
	recordFile := flag.String("record", "", "Transform record JSON (optional; default is the fit transform)")
	output := flag.String("output", "thumb.webp", "Output thumbnail path")
	size := flag.Int("size", 600, "Export size in pixels (square)")
	viewport := flag.Float64("viewport", 400, "Editor viewport size the record was captured at")
	maxDim := flag.Int("max", 0, "Max normalized dimension (default: 1500)")
	format := flag.String("format", "webp", "Output format: webp or jpeg")
	quality := flag.Int("quality", 90, "JPEG quality 1-100")

	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Error: -input is required")
		os.Exit(2)
	}

	if err := run(*input, *recordFile, *output, *size, *viewport, *maxDim, *format, *quality); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// fileLoader adapts a single capture file to the editor's Loader.
type fileLoader struct {
	loader imgio.Loader
	path   string
}

func (f *fileLoader) Load(int) (*imgio.ImageSource, error) {
	return f.loader.LoadFile(f.path)
}

func run(input, recordFile, output string, size int, viewport float64, maxDim int, format string, quality int) error {
	session := editor.NewSession(
		&fileLoader{loader: imgio.Loader{MaxDimension: maxDim}, path: input},
		viewport, viewport,
	)
	session.SetEncoder(imgio.EncoderFor(format, quality))

	if recordFile != "" {
		data, err := os.ReadFile(recordFile)
		if err != nil {
			return err
		}
		var rec transform.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return fmt.Errorf("parse record %s: %w", recordFile, err)
		}
		rec.SourceImageIndex = 0
		session.RestoreRecord(rec)
	}

	if err := session.Select(0); err != nil {
		return err
	}

	res, err := session.Save(size)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, res.Thumb, 0644); err != nil {
		return err
	}

	rec, _ := json.Marshal(res.Record)
	fmt.Printf("%s → %s (%d bytes, %dpx)\n", input, output, len(res.Thumb), size)
	fmt.Printf("record: %s\n", rec)
	return nil
}
