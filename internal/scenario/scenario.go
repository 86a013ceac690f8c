// Package scenario loads adaptation scenarios from YAML and replays them
// through a bitrate gate.
package scenario

import (
	"github.com/five82/resgate/internal/encoder"
	"github.com/five82/resgate/internal/gate"
)

// StepKind identifies what a scenario step does.
type StepKind int

const (
	// StepSettings replaces or clears the encoder settings.
	StepSettings StepKind = iota
	// StepBitrate replaces or clears the target bitrate.
	StepBitrate
	// StepPropose asks the gate about a restriction change.
	StepPropose
)

// String returns the YAML key of the step kind.
func (k StepKind) String() string {
	switch k {
	case StepSettings:
		return "settings"
	case StepBitrate:
		return "bitrate"
	case StepPropose:
		return "propose"
	default:
		return "unknown"
	}
}

// Expectation is the decision a scenario expects for a proposal.
type Expectation int

const (
	ExpectNone Expectation = iota
	ExpectAllow
	ExpectDeny
)

// String returns "allow", "deny" or "" when nothing is expected.
func (e Expectation) String() string {
	switch e {
	case ExpectAllow:
		return "allow"
	case ExpectDeny:
		return "deny"
	default:
		return ""
	}
}

// Matches reports whether allowed satisfies the expectation.
func (e Expectation) Matches(allowed bool) bool {
	switch e {
	case ExpectAllow:
		return allowed
	case ExpectDeny:
		return !allowed
	default:
		return true
	}
}

// Proposal is a restriction change submitted to the gate.
type Proposal struct {
	Label  string
	Input  gate.InputState
	Before gate.Restrictions
	After  gate.Restrictions
	Expect Expectation
}

// Step is one entry of a scenario. Only the fields of its Kind are used.
// A nil Settings or BitrateBps clears the corresponding gate state.
type Step struct {
	Kind       StepKind
	Line       int
	Settings   *encoder.Settings
	BitrateBps *uint32
	Proposal   Proposal
}

// Scenario is a named sequence of steps replayed against a fresh gate.
type Scenario struct {
	Name   string
	Source string

	// Limits is the table attached to every settings step. When LimitsSource
	// is empty the scenario did not choose a table and the replayer's default
	// is used.
	Limits       []encoder.ResolutionBitrateLimits
	LimitsSource string

	ImplementationName string
	Steps              []Step
}

// Proposals returns the number of propose steps.
func (s *Scenario) Proposals() int {
	n := 0
	for _, step := range s.Steps {
		if step.Kind == StepPropose {
			n++
		}
	}
	return n
}
