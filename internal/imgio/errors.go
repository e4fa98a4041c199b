package imgio

import "errors"

// Error kinds the caller can branch on. HEIC conversion failures are kept
// distinct from generic decode failures so the host can show a
// format-specific message.
var (
	// ErrDecode marks a capture blob that could not be decoded.
	ErrDecode = errors.New("imgio: decode failed")

	// ErrHEIC marks a failed HEIC/HEIF conversion.
	ErrHEIC = errors.New("imgio: heic conversion failed")

	// ErrEncode marks a failed thumbnail encode.
	ErrEncode = errors.New("imgio: encode failed")
)
