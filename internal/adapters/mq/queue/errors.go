package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrBackpressure = errors.New("document queue is full")
	ErrClosed       = errors.New("document queue is closed")
)
