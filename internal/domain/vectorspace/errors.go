package vectorspace

import "errors"

var (
	// ErrEmptyVocabulary is returned when the corpus has no usable token.
	ErrEmptyVocabulary = errors.New("empty vocabulary")
	// ErrDimensionMismatch is returned when compared vectors differ in length.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
