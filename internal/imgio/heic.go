package imgio

import (
	"image"
	"io"

	"github.com/gen2brain/heic"
)

// builtinHEIC is the default HEIC delegate, backed by the WASM libheif
// build. Kept behind the HEICDecoder interface so its failures stay a
// distinct error kind and tests never need real HEIC fixtures.
type builtinHEIC struct{}

func (builtinHEIC) Decode(r io.Reader) (image.Image, error) {
	return heic.Decode(r)
}
