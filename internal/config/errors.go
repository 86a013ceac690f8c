// Package config provides configuration types and defaults for resgate.
package config

import "errors"

// Sentinel errors for configuration validation.
var (
	// ErrInvalidPreset indicates an unknown limits preset name was provided.
	ErrInvalidPreset = errors.New("invalid limits preset")

	// ErrInvalidOutputFormat indicates an unknown output format was provided.
	ErrInvalidOutputFormat = errors.New("invalid output format")

	// ErrInvalidLimits indicates a limit table file that could not be used.
	ErrInvalidLimits = errors.New("invalid limit table")
)
