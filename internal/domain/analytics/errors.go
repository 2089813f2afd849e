package analytics

import "errors"

var (
	ErrTooFewPoints = errors.New("too few points")
	ErrProjection   = errors.New("projection failed")
	ErrClustering   = errors.New("clustering failed")
	ErrNeighbors    = errors.New("neighbor search failed")
)
