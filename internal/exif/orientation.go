// Package exif extracts the orientation tag from JPEG capture data.
//
// Only the orientation tag is read; the rest of the EXIF tree is skipped.
// Malformed, truncated, or non-JPEG input is an expected outcome and resolves
// to Unspecified, never an error.
package exif

import "encoding/binary"

// Orientation is the EXIF orientation tag value (tag 0x0112).
type Orientation int

const (
	Unspecified Orientation = 0
	Normal      Orientation = 1
	FlipH       Orientation = 2
	Rotate180   Orientation = 3
	FlipV       Orientation = 4
	Transpose   Orientation = 5 // flip across the main diagonal
	Rotate90CW  Orientation = 6
	Transverse  Orientation = 7 // flip across the anti-diagonal
	Rotate270CW Orientation = 8
)

// PrefixSize is how much of a candidate JPEG callers should hand to Decode.
// APP1 sits right after SOI in camera output, so 64KB is plenty.
const PrefixSize = 64 * 1024

const (
	markerSOI      = 0xD8
	markerAPP1     = 0xE1
	markerSOS      = 0xDA
	orientationTag = 0x0112
	typeShort      = 3
)

// Decode scans a bounded prefix of a candidate JPEG for the EXIF orientation
// tag. It returns Unspecified when the buffer is not a JPEG, is truncated, or
// carries no orientation — all non-error outcomes.
func Decode(buf []byte) Orientation {
	if len(buf) < 2 || buf[0] != 0xFF || buf[1] != markerSOI {
		return Unspecified
	}

	// Walk marker segments. Every step advances off, so the loop is bounded
	// by len(buf).
	off := 2
	for off+4 <= len(buf) {
		if buf[off] != 0xFF {
			return Unspecified
		}
		marker := buf[off+1]
		off += 2

		// Skip fill bytes between segments.
		if marker == 0xFF {
			off--
			continue
		}

		// Standalone markers carry no length.
		if marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7) {
			continue
		}

		if off+2 > len(buf) {
			return Unspecified
		}
		segLen := int(binary.BigEndian.Uint16(buf[off:])) - 2
		off += 2
		if segLen < 0 || off+segLen > len(buf) {
			return Unspecified
		}

		if marker == markerAPP1 {
			return parseAPP1(buf[off : off+segLen])
		}
		// No metadata after the scan data starts.
		if marker == markerSOS {
			return Unspecified
		}

		off += segLen
	}
	return Unspecified
}

// parseAPP1 reads the orientation entry out of an Exif APP1 payload.
func parseAPP1(seg []byte) Orientation {
	if len(seg) < 14 || string(seg[:4]) != "Exif" || seg[4] != 0 || seg[5] != 0 {
		return Unspecified
	}
	tiff := seg[6:]

	var bo binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		bo = binary.LittleEndian
	case "MM":
		bo = binary.BigEndian
	default:
		return Unspecified
	}
	if bo.Uint16(tiff[2:4]) != 42 {
		return Unspecified
	}

	ifd := int(bo.Uint32(tiff[4:8]))
	if ifd < 8 || ifd+2 > len(tiff) {
		return Unspecified
	}
	count := int(bo.Uint16(tiff[ifd : ifd+2]))
	ifd += 2

	for i := 0; i < count; i++ {
		entry := ifd + i*12
		if entry+12 > len(tiff) {
			return Unspecified
		}
		if bo.Uint16(tiff[entry:entry+2]) != orientationTag {
			continue
		}
		if bo.Uint16(tiff[entry+2:entry+4]) != typeShort {
			return Unspecified
		}
		v := Orientation(bo.Uint16(tiff[entry+8 : entry+10]))
		if v >= Normal && v <= Rotate270CW {
			return v
		}
		return Unspecified
	}
	return Unspecified
}

// SwapsDimensions reports whether the orientation encodes a 90°-family
// rotation, i.e. the upright image has width and height exchanged.
func (o Orientation) SwapsDimensions() bool {
	return o >= Transpose && o <= Rotate270CW
}

// Dimensions returns the upright dimensions for a source of size w×h.
func (o Orientation) Dimensions(w, h int) (int, int) {
	if o.SwapsDimensions() {
		return h, w
	}
	return w, h
}

func (o Orientation) String() string {
	switch o {
	case Normal:
		return "normal"
	case FlipH:
		return "flip-h"
	case Rotate180:
		return "rotate-180"
	case FlipV:
		return "flip-v"
	case Transpose:
		return "transpose"
	case Rotate90CW:
		return "rotate-90-cw"
	case Transverse:
		return "transverse"
	case Rotate270CW:
		return "rotate-270-cw"
	default:
		return "unspecified"
	}
}
