package gate

import (
	"fmt"

	"github.com/five82/resgate/internal/encoder"
)

// Reason names the rule that decided an up-adaptation query.
type Reason int

const (
	// ReasonNoResolutionIncrease means the change does not raise resolution.
	ReasonNoResolutionIncrease Reason = iota
	// ReasonNoEncoderSettings means no encoder settings are known yet.
	ReasonNoEncoderSettings
	// ReasonNoTargetBitrate means the target bitrate is unknown or zero.
	ReasonNoTargetBitrate
	// ReasonSimulcast means per-resolution limits do not apply to simulcast.
	ReasonSimulcast
	// ReasonNoSingleActiveLayer means the active layer could not be determined.
	ReasonNoSingleActiveLayer
	// ReasonNoBitrateLimit means the limit table has no entry for the next resolution.
	ReasonNoBitrateLimit
	// ReasonBitrateSufficient means the target bitrate meets the min start bitrate.
	ReasonBitrateSufficient
	// ReasonBitrateInsufficient means the target bitrate is below the min start bitrate.
	ReasonBitrateInsufficient
)

var reasonNames = [...]string{
	ReasonNoResolutionIncrease: "no-resolution-increase",
	ReasonNoEncoderSettings:    "no-encoder-settings",
	ReasonNoTargetBitrate:      "no-target-bitrate",
	ReasonSimulcast:            "simulcast",
	ReasonNoSingleActiveLayer:  "no-single-active-layer",
	ReasonNoBitrateLimit:       "no-bitrate-limit",
	ReasonBitrateSufficient:    "bitrate-sufficient",
	ReasonBitrateInsufficient:  "bitrate-insufficient",
}

// String returns the kebab-case reason name.
func (r Reason) String() string {
	if r < 0 || int(r) >= len(reasonNames) {
		return fmt.Sprintf("reason(%d)", int(r))
	}
	return reasonNames[r]
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// Decision is the outcome of an up-adaptation query. Fields past Reason are
// filled in only as far as the evaluation got.
type Decision struct {
	Allowed          bool
	Reason           Reason
	TargetBitrateBps uint32
	CurrentPixels    int
	QueryPixels      int
	Limits           *encoder.ResolutionBitrateLimits
}

func allow(reason Reason) Decision {
	return Decision{Allowed: true, Reason: reason}
}
