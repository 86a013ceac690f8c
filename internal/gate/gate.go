// Package gate implements the bitrate gate that vetoes resolution increases
// when the encoder's target bitrate is below the minimum start bitrate of the
// resolution the stream would move to.
//
// The gate fails open: whenever it lacks the information to justify a veto,
// the up-adaptation is allowed.
package gate

import (
	"github.com/five82/resgate/internal/encoder"
	"github.com/five82/resgate/internal/logging"
	"github.com/five82/resgate/internal/sequence"
)

// ConstraintName is the name BitrateGate reports as a Constraint.
const ConstraintName = "BitrateConstraint"

// BitrateGate holds the last known encoder settings and target bitrate.
//
// All methods must be called from the single sequence that owns the gate.
// The gate takes no locks; builds tagged resgate_debug panic on overlapping
// calls.
type BitrateGate struct {
	checker          sequence.Checker
	settings         *encoder.Settings
	targetBitrateBps *uint32
}

// New creates a gate with no encoder settings and no target bitrate.
func New() *BitrateGate {
	return &BitrateGate{}
}

// Name implements Constraint.
func (g *BitrateGate) Name() string {
	return ConstraintName
}

// SetEncoderSettings replaces the stored settings snapshot. nil clears it.
func (g *BitrateGate) SetEncoderSettings(settings *encoder.Settings) {
	defer g.checker.Enter()()
	if settings == nil {
		g.settings = nil
		return
	}
	s := settings.Clone()
	g.settings = &s
}

// SetTargetBitrateBps replaces the stored target bitrate. nil clears it.
func (g *BitrateGate) SetTargetBitrateBps(bps *uint32) {
	defer g.checker.Enter()()
	if bps == nil {
		g.targetBitrateBps = nil
		return
	}
	v := *bps
	g.targetBitrateBps = &v
}

// EncoderSettings returns a copy of the stored settings snapshot, or nil.
func (g *BitrateGate) EncoderSettings() *encoder.Settings {
	defer g.checker.Enter()()
	if g.settings == nil {
		return nil
	}
	s := g.settings.Clone()
	return &s
}

// TargetBitrateBps returns the stored target bitrate. ok is false when unset.
func (g *BitrateGate) TargetBitrateBps() (bps uint32, ok bool) {
	defer g.checker.Enter()()
	if g.targetBitrateBps == nil {
		return 0, false
	}
	return *g.targetBitrateBps, true
}

// IsAdaptationUpAllowed implements Constraint.
func (g *BitrateGate) IsAdaptationUpAllowed(input InputState, before, after Restrictions) bool {
	return g.Evaluate(input, before, after).Allowed
}

// Evaluate decides whether the change from before to after may be applied and
// reports which rule decided it. It does not modify the gate.
func (g *BitrateGate) Evaluate(_ InputState, before, after Restrictions) Decision {
	defer g.checker.Enter()()

	if !DidIncreaseResolution(before, after) {
		return allow(ReasonNoResolutionIncrease)
	}
	if g.settings == nil {
		return allow(ReasonNoEncoderSettings)
	}

	var bitrateBps uint32
	if g.targetBitrateBps != nil {
		bitrateBps = *g.targetBitrateBps
	}
	if bitrateBps == 0 {
		return allow(ReasonNoTargetBitrate)
	}

	d := Decision{Allowed: true, TargetBitrateBps: bitrateBps}

	// Resolution bitrate limits only apply to singlecast.
	if IsSimulcast(g.settings.Config) {
		d.Reason = ReasonSimulcast
		return d
	}

	currentPixels, ok := encoder.SingleActiveLayerPixels(g.settings.Codec)
	if !ok {
		d.Reason = ReasonNoSingleActiveLayer
		return d
	}
	d.CurrentPixels = currentPixels

	// The limits of interest are those of the resolution being moved to.
	d.QueryPixels = encoder.HigherResolutionThan(currentPixels)
	limits, ok := g.settings.Info.BitrateLimitsForResolution(d.QueryPixels)
	if !ok {
		d.Reason = ReasonNoBitrateLimit
		return d
	}
	d.Limits = &limits

	if limits.FrameSizePixels < currentPixels {
		inconsistentLimits(limits, currentPixels)
	}

	if int64(bitrateBps) >= int64(limits.MinStartBitrateBps) {
		d.Reason = ReasonBitrateSufficient
		return d
	}
	d.Allowed = false
	d.Reason = ReasonBitrateInsufficient
	return d
}

// inconsistentLimits reports a limit table entry smaller than the current
// resolution, which the lookup can only return for a broken table.
func inconsistentLimits(limits encoder.ResolutionBitrateLimits, currentPixels int) {
	if sequence.DebugChecks() {
		panic("gate: bitrate limit frame size below current frame size")
	}
	logging.Warn("bitrate limit frame size below current frame size",
		"limit_frame_size_pixels", limits.FrameSizePixels,
		"current_pixels", currentPixels)
}
