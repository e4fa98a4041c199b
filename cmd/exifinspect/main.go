// Command exifinspect prints the EXIF orientation and upright dimensions of
// capture files.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/webp"

	"capture-thumb-editor/internal/exif"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s <file> [file ...]\n", os.Args[0])
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	exitCode := 0
	for _, path := range flag.Args() {
		if err := inspect(path); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func inspect(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	prefix := data
	if len(prefix) > exif.PrefixSize {
		prefix = prefix[:exif.PrefixSize]
	}
	orient := exif.Decode(prefix)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		fmt.Printf("%s: orientation=%s (undecodable: %v)\n", path, orient, err)
		return nil
	}

	w, h := orient.Dimensions(cfg.Width, cfg.Height)
	fmt.Printf("%s: format=%s orientation=%s stored=%dx%d upright=%dx%d\n",
		path, format, orient, cfg.Width, cfg.Height, w, h)
	return nil
}
