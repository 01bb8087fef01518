package spoon

import "errors"

// Common errors used throughout the spoon package
var (
	// ErrConfigValidation is returned when configuration validation fails
	ErrConfigValidation = errors.New("configuration validation failed")
	// ErrNilConfig indicates an environment was requested without a configuration.
	ErrNilConfig = errors.New("configuration is nil")
)
