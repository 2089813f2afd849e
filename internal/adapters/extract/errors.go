package extract

import "errors"

var (
	// ErrUnsupportedType is returned for an unknown file extension.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrExtractTimeout is returned when extraction exceeds its timeout.
	ErrExtractTimeout = errors.New("extraction timed out")
	// ErrMalformedDocument is returned when a decoder rejects the bytes.
	ErrMalformedDocument = errors.New("malformed document")
)
