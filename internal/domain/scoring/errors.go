package scoring

import "errors"

// ErrInvalidTrendWeights is returned for an unreadable or malformed trend weight file.
var ErrInvalidTrendWeights = errors.New("invalid trend weights")
