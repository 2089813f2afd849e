package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrValidation   = errors.New("invalid request")
	ErrBackpressure = errors.New("service is busy")
	ErrNotStarted   = errors.New("service not started")
)
