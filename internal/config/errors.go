package config

import "errors"

// Error kinds returned by Load and Validate.
var (
	// ErrLoadConfig wraps failures reading the YAML file or the environment.
	ErrLoadConfig = errors.New("load screener config")

	// ErrInvalidConfig wraps validator failures, e.g. an unknown session backend.
	ErrInvalidConfig = errors.New("invalid screener config")
)
