package encoder

import "errors"

// Sentinel errors for encoder settings validation.
var (
	// ErrUnknownCodec indicates an unsupported codec name was provided.
	ErrUnknownCodec = errors.New("unknown codec")

	// ErrInvalidLimits indicates a resolution bitrate limit table that cannot be used for lookups.
	ErrInvalidLimits = errors.New("invalid resolution bitrate limits")
)
