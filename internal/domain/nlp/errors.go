package nlp

import "errors"

// ErrInvalidTaxonomy is returned for an unreadable or malformed taxonomy file.
var ErrInvalidTaxonomy = errors.New("invalid skill taxonomy")
