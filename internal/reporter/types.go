// Package reporter provides decision reporting interfaces and implementations.
package reporter

import "time"

// ScenarioInfo describes a scenario about to be replayed.
type ScenarioInfo struct {
	Name         string
	Source       string
	RunID        string
	Steps        int
	LimitsSource string
}

// SettingsUpdate describes an encoder settings notification.
type SettingsUpdate struct {
	Step         int
	Cleared      bool
	Codec        string
	Layers       []string
	Simulcast    bool
	LimitEntries int
}

// BitrateUpdate describes a target bitrate notification.
type BitrateUpdate struct {
	Step       int
	Cleared    bool
	BitrateBps uint32
}

// DecisionEvent describes the gate's answer to one proposed change.
type DecisionEvent struct {
	Step               int
	Label              string
	Before             string
	After              string
	Allowed            bool
	Reason             string
	TargetBitrateBps   uint32
	CurrentPixels      int
	QueryPixels        int
	MinStartBitrateBps *int
	Expected           string
	Mismatch           bool
}

// Verdict returns "allow" or "deny".
func (d DecisionEvent) Verdict() string {
	if d.Allowed {
		return "allow"
	}
	return "deny"
}

// ProgressSnapshot contains replay progress information.
type ProgressSnapshot struct {
	Current int
	Total   int
}

// ReporterError contains error information.
type ReporterError struct {
	Title      string
	Message    string
	Context    string
	Suggestion string
}

// ScenarioSummary contains per-scenario replay results.
type ScenarioSummary struct {
	Name       string
	RunID      string
	Proposals  int
	Allowed    int
	Denied     int
	Mismatches int
	Duration   time.Duration
}

// BatchSummary contains results across all replayed scenarios.
type BatchSummary struct {
	Scenarios  int
	Proposals  int
	Allowed    int
	Denied     int
	Mismatches int
	Duration   time.Duration
	Results    []ScenarioSummary
}
