package scenario

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/five82/resgate/internal/encoder"
	"github.com/five82/resgate/internal/errors"
	"github.com/five82/resgate/internal/gate"
	"github.com/five82/resgate/internal/logging"
	"github.com/five82/resgate/internal/reporter"
	"github.com/five82/resgate/internal/sequence"
	"github.com/five82/resgate/internal/worker"
)

// Result summarizes one scenario replay.
type Result struct {
	Name       string
	RunID      string
	Proposals  int
	Allowed    int
	Denied     int
	Mismatches int
	Decisions  []gate.Decision
	Duration   time.Duration
}

// Summary converts the result for reporting.
func (r *Result) Summary() reporter.ScenarioSummary {
	return reporter.ScenarioSummary{
		Name:       r.Name,
		RunID:      r.RunID,
		Proposals:  r.Proposals,
		Allowed:    r.Allowed,
		Denied:     r.Denied,
		Mismatches: r.Mismatches,
		Duration:   r.Duration,
	}
}

// Replayer replays scenarios against a fresh gate per scenario.
type Replayer struct {
	reporter     reporter.Reporter
	logger       *logging.Logger
	limits       []encoder.ResolutionBitrateLimits
	limitsSource string
	jobs         int
}

// Option configures a Replayer.
type Option func(*Replayer)

// WithReporter sets the reporter that receives replay events.
func WithReporter(r reporter.Reporter) Option {
	return func(rp *Replayer) {
		rp.reporter = r
	}
}

// WithLogger sets the logger used for replay diagnostics.
func WithLogger(l *logging.Logger) Option {
	return func(rp *Replayer) {
		rp.logger = l
	}
}

// WithDefaultLimits sets the limit table used by scenarios that do not
// choose one.
func WithDefaultLimits(source string, limits []encoder.ResolutionBitrateLimits) Option {
	return func(rp *Replayer) {
		rp.limitsSource = source
		rp.limits = limits
	}
}

// WithJobs sets how many scenarios RunAll replays concurrently.
func WithJobs(n int) Option {
	return func(rp *Replayer) {
		rp.jobs = n
	}
}

// NewReplayer creates a replayer. Without options it reports nothing and uses
// the default singlecast limits.
func NewReplayer(opts ...Option) *Replayer {
	rp := &Replayer{
		reporter:     reporter.NullReporter{},
		limits:       encoder.DefaultSinglecastLimits(),
		limitsSource: "default",
		jobs:         1,
	}
	for _, opt := range opts {
		opt(rp)
	}
	if rp.logger == nil {
		rp.logger = logging.Global().WithPrefix("replay")
	}
	return rp
}

// Run replays sc. All gate access happens on a single sequence owned by the
// replay. Expectation mismatches are reported and counted, not returned.
func (rp *Replayer) Run(ctx context.Context, sc *Scenario) (*Result, error) {
	return rp.run(ctx, sc, rp.reporter)
}

func (rp *Replayer) run(ctx context.Context, sc *Scenario, rep reporter.Reporter) (*Result, error) {
	start := time.Now()
	limits, limitsSource := sc.Limits, sc.LimitsSource
	if limitsSource == "" {
		limits, limitsSource = rp.limits, rp.limitsSource
	}

	result := &Result{Name: sc.Name, RunID: uuid.NewString()}
	log := rp.logger.With("scenario", sc.Name, "run_id", result.RunID)

	rep.ScenarioStarted(reporter.ScenarioInfo{
		Name:         sc.Name,
		Source:       sc.Source,
		RunID:        result.RunID,
		Steps:        len(sc.Steps),
		LimitsSource: limitsSource,
	})
	log.Debugw("replay started", "steps", len(sc.Steps), "limits", limitsSource)

	queueCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	queue := sequence.NewQueue(1)
	queueDone := make(chan error, 1)
	go func() {
		queueDone <- queue.Run(queueCtx)
	}()
	defer func() {
		queue.Close()
		<-queueDone
	}()

	g := gate.New()
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return result, errors.WrapContextError(err)
		}

		n := i + 1
		switch step.Kind {
		case StepSettings:
			settings := withLimits(step.Settings, limits, sc.ImplementationName)
			if err := queue.PostAndWait(ctx, func() { g.SetEncoderSettings(settings) }); err != nil {
				return result, errors.WrapContextError(err)
			}
			rep.SettingsUpdated(settingsUpdate(n, settings))
			log.Debugw("encoder settings updated", "step", n, "cleared", settings == nil)

		case StepBitrate:
			if err := queue.PostAndWait(ctx, func() { g.SetTargetBitrateBps(step.BitrateBps) }); err != nil {
				return result, errors.WrapContextError(err)
			}
			update := reporter.BitrateUpdate{Step: n, Cleared: step.BitrateBps == nil}
			if step.BitrateBps != nil {
				update.BitrateBps = *step.BitrateBps
			}
			rep.BitrateUpdated(update)
			log.Debugw("target bitrate updated", "step", n, "cleared", update.Cleared, "bps", update.BitrateBps)

		case StepPropose:
			p := step.Proposal
			var d gate.Decision
			if err := queue.PostAndWait(ctx, func() { d = g.Evaluate(p.Input, p.Before, p.After) }); err != nil {
				return result, errors.WrapContextError(err)
			}
			record(rep, result, sc, n, p, d, log)
		}

		rep.Progress(reporter.ProgressSnapshot{Current: n, Total: len(sc.Steps)})
	}

	result.Duration = time.Since(start)
	rep.ScenarioComplete(result.Summary())
	log.Infow("replay complete",
		"proposals", result.Proposals,
		"allowed", result.Allowed,
		"denied", result.Denied,
		"mismatches", result.Mismatches)
	return result, nil
}

func record(rep reporter.Reporter, result *Result, sc *Scenario, step int, p Proposal, d gate.Decision, log *zap.SugaredLogger) {
	result.Proposals++
	result.Decisions = append(result.Decisions, d)
	if d.Allowed {
		result.Allowed++
	} else {
		result.Denied++
	}

	event := reporter.DecisionEvent{
		Step:             step,
		Label:            p.Label,
		Before:           p.Before.String(),
		After:            p.After.String(),
		Allowed:          d.Allowed,
		Reason:           d.Reason.String(),
		TargetBitrateBps: d.TargetBitrateBps,
		CurrentPixels:    d.CurrentPixels,
		QueryPixels:      d.QueryPixels,
		Expected:         p.Expect.String(),
		Mismatch:         !p.Expect.Matches(d.Allowed),
	}
	if d.Limits != nil {
		minStart := d.Limits.MinStartBitrateBps
		event.MinStartBitrateBps = &minStart
	}
	rep.Decision(event)

	if event.Mismatch {
		result.Mismatches++
		err := errors.NewExpectationError(sc.Name, step, p.Expect.String(), event.Verdict(), event.Reason)
		rep.Warning(err.Message)
		log.Warnw("decision did not match expectation", "step", step, "want", event.Expected, "got", event.Verdict(), "reason", event.Reason)
	}
}

// RunAll replays every scenario and reports a batch summary. Scenarios run
// concurrently when jobs > 1; their events are still reported one scenario
// at a time, in input order. It stops at the first error.
func (rp *Replayer) RunAll(ctx context.Context, scenarios []*Scenario) (reporter.BatchSummary, error) {
	start := time.Now()
	results := make([]*Result, len(scenarios))

	if rp.jobs <= 1 || len(scenarios) <= 1 {
		for i, sc := range scenarios {
			result, err := rp.run(ctx, sc, rp.reporter)
			if err != nil {
				return reporter.BatchSummary{}, err
			}
			results[i] = result
		}
	} else {
		buffers := make([]*reporter.BufferedReporter, len(scenarios))
		jobs := make([]worker.Job, len(scenarios))
		for i, sc := range scenarios {
			i, sc := i, sc
			buffers[i] = reporter.NewBufferedReporter()
			jobs[i] = func(ctx context.Context) error {
				result, err := rp.run(ctx, sc, buffers[i])
				results[i] = result
				return err
			}
		}
		rp.logger.Debugw("replaying scenarios concurrently", "scenarios", len(scenarios), "jobs", rp.jobs)
		err := worker.Run(ctx, rp.jobs, jobs, func(p worker.Progress) {
			rp.logger.Debugw("scenario replay finished", "complete", p.JobsComplete, "total", p.JobsTotal)
		})
		for _, b := range buffers {
			b.FlushTo(rp.reporter)
		}
		if err != nil {
			return reporter.BatchSummary{}, errors.WrapContextError(err)
		}
	}

	var batch reporter.BatchSummary
	for _, result := range results {
		batch.Scenarios++
		batch.Proposals += result.Proposals
		batch.Allowed += result.Allowed
		batch.Denied += result.Denied
		batch.Mismatches += result.Mismatches
		batch.Results = append(batch.Results, result.Summary())
	}
	batch.Duration = time.Since(start)
	if len(scenarios) > 1 {
		rp.reporter.BatchComplete(batch)
	}
	return batch, nil
}

// withLimits attaches the limit table to a copy of settings.
func withLimits(settings *encoder.Settings, limits []encoder.ResolutionBitrateLimits, implementation string) *encoder.Settings {
	if settings == nil {
		return nil
	}
	s := *settings
	s.Info = encoder.Info{ImplementationName: implementation, Limits: limits}
	return &s
}

func settingsUpdate(step int, settings *encoder.Settings) reporter.SettingsUpdate {
	if settings == nil {
		return reporter.SettingsUpdate{Step: step, Cleared: true}
	}
	layers := make([]string, 0, len(settings.Config.Layers))
	for _, l := range settings.Config.Layers {
		layers = append(layers, l.String())
	}
	return reporter.SettingsUpdate{
		Step:         step,
		Codec:        settings.Codec.Type.String(),
		Layers:       layers,
		Simulcast:    gate.IsSimulcast(settings.Config),
		LimitEntries: len(settings.Info.Limits),
	}
}
