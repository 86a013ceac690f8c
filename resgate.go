// Package resgate provides a bitrate gate for video adaptation.
//
// The gate vetoes resolution increases when the encoder's target bitrate is
// below the minimum start bitrate recommended for the resolution the stream
// would move to. It fails open: when encoder settings, the target bitrate or
// a matching limit entry are missing, the increase is allowed.
//
// Basic usage:
//
//	g := resgate.New()
//	g.SetEncoderSettings(&resgate.Settings{...})
//	g.SetTargetBitrateBps(resgate.Bitrate(450000))
//
//	if g.IsAdaptationUpAllowed(resgate.InputState{},
//	    resgate.MaxPixels(640*360), resgate.MaxPixels(960*540)) {
//	    // apply the new restrictions
//	}
//
// A Gate must be used from one goroutine at a time.
package resgate

import (
	"context"

	"go.uber.org/zap"

	"github.com/five82/resgate/internal/config"
	"github.com/five82/resgate/internal/encoder"
	"github.com/five82/resgate/internal/gate"
	"github.com/five82/resgate/internal/logging"
	"github.com/five82/resgate/internal/scenario"
)

// Re-export gate types
type (
	Restrictions = gate.Restrictions
	InputState   = gate.InputState
	Decision     = gate.Decision
	Reason       = gate.Reason
	Constraint   = gate.Constraint
	Constraints  = gate.Constraints
)

const (
	ReasonNoResolutionIncrease = gate.ReasonNoResolutionIncrease
	ReasonNoEncoderSettings    = gate.ReasonNoEncoderSettings
	ReasonNoTargetBitrate      = gate.ReasonNoTargetBitrate
	ReasonSimulcast            = gate.ReasonSimulcast
	ReasonNoSingleActiveLayer  = gate.ReasonNoSingleActiveLayer
	ReasonNoBitrateLimit       = gate.ReasonNoBitrateLimit
	ReasonBitrateSufficient    = gate.ReasonBitrateSufficient
	ReasonBitrateInsufficient  = gate.ReasonBitrateInsufficient
)

// Re-export encoder types
type (
	Settings                = encoder.Settings
	EncoderConfig           = encoder.Config
	Codec                   = encoder.Codec
	CodecType               = encoder.CodecType
	Layer                   = encoder.Layer
	EncoderInfo             = encoder.Info
	ResolutionBitrateLimits = encoder.ResolutionBitrateLimits
)

const (
	CodecGeneric = encoder.CodecGeneric
	CodecVP8     = encoder.CodecVP8
	CodecVP9     = encoder.CodecVP9
	CodecAV1     = encoder.CodecAV1
	CodecH264    = encoder.CodecH264
)

// Re-export limit presets
type Preset = config.Preset

const (
	PresetDefault = config.PresetDefault
	PresetStrict  = config.PresetStrict
	PresetNone    = config.PresetNone
)

// ParsePreset converts a preset string to a Preset value.
// Valid values are "default", "strict", and "none" (case-insensitive).
func ParsePreset(s string) (Preset, error) {
	return config.ParsePreset(s)
}

// PresetLimits returns the limit table of a preset.
func PresetLimits(p Preset) []ResolutionBitrateLimits {
	return config.PresetLimits(p)
}

// ParseCodecType parses a codec name such as "vp8" or "VP9".
func ParseCodecType(s string) (CodecType, error) {
	return encoder.ParseCodecType(s)
}

// DefaultSinglecastLimits returns the built-in singlecast limit table.
func DefaultSinglecastLimits() []ResolutionBitrateLimits {
	return encoder.DefaultSinglecastLimits()
}

// HigherResolutionThan returns the pixel count one resolution step above
// pixels.
func HigherResolutionThan(pixels int) int {
	return encoder.HigherResolutionThan(pixels)
}

// Unrestricted returns restrictions with no caps.
func Unrestricted() Restrictions {
	return gate.Unrestricted()
}

// MaxPixels returns restrictions capping the frame size at pixels.
func MaxPixels(pixels int) Restrictions {
	return gate.MaxPixels(pixels)
}

// DidIncreaseResolution reports whether before to after raises the
// resolution cap.
func DidIncreaseResolution(before, after Restrictions) bool {
	return gate.DidIncreaseResolution(before, after)
}

// Bitrate returns a pointer to bps for SetTargetBitrateBps.
func Bitrate(bps uint32) *uint32 {
	return &bps
}

// Gate is the bitrate gate. The zero value is not usable; call New.
type Gate struct {
	gate   *gate.BitrateGate
	logger *logging.Logger
}

// Option configures a Gate.
type Option func(*Gate)

// WithLogger logs decisions to l at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(g *Gate) {
		g.logger = logging.FromZap(l).WithPrefix("resgate")
	}
}

// WithSettings sets the initial encoder settings.
func WithSettings(s *Settings) Option {
	return func(g *Gate) {
		g.gate.SetEncoderSettings(s)
	}
}

// WithTargetBitrateBps sets the initial target bitrate.
func WithTargetBitrateBps(bps uint32) Option {
	return func(g *Gate) {
		g.gate.SetTargetBitrateBps(&bps)
	}
}

// New creates a gate with no encoder settings and no target bitrate unless
// options provide them.
func New(opts ...Option) *Gate {
	g := &Gate{
		gate:   gate.New(),
		logger: logging.FromZap(nil),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Name returns the constraint name.
func (g *Gate) Name() string {
	return g.gate.Name()
}

// SetEncoderSettings replaces the encoder settings. nil clears them.
func (g *Gate) SetEncoderSettings(s *Settings) {
	g.gate.SetEncoderSettings(s)
}

// SetTargetBitrateBps replaces the target bitrate. nil clears it.
func (g *Gate) SetTargetBitrateBps(bps *uint32) {
	g.gate.SetTargetBitrateBps(bps)
}

// IsAdaptationUpAllowed reports whether the change from before to after may
// be applied.
func (g *Gate) IsAdaptationUpAllowed(input InputState, before, after Restrictions) bool {
	return g.Evaluate(input, before, after).Allowed
}

// Evaluate is IsAdaptationUpAllowed with the deciding rule attached.
func (g *Gate) Evaluate(input InputState, before, after Restrictions) Decision {
	d := g.gate.Evaluate(input, before, after)
	g.logger.Debugw("adaptation up evaluated",
		"before", before,
		"after", after,
		"allowed", d.Allowed,
		"reason", d.Reason)
	return d
}

// ReplayResult summarizes a replayed scenario file.
type ReplayResult = scenario.Result

// ReplayFile loads a scenario file and replays it against a fresh gate.
// Scenarios that do not choose a limit table use the default one.
func ReplayFile(ctx context.Context, path string) (*ReplayResult, error) {
	sc, err := scenario.Load(path)
	if err != nil {
		return nil, err
	}
	return scenario.NewReplayer().Run(ctx, sc)
}
