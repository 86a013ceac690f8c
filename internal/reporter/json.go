package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// JSONReporter outputs one JSON object per event (NDJSON).
type JSONReporter struct {
	writer io.Writer
	mu     sync.Mutex
	now    func() time.Time
}

// NewJSONReporter creates a new JSON reporter that writes to stdout.
func NewJSONReporter() *JSONReporter {
	return NewJSONReporterWithWriter(os.Stdout)
}

// NewJSONReporterWithWriter creates a JSON reporter with a custom writer.
func NewJSONReporterWithWriter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w, now: time.Now}
}

func (r *JSONReporter) timestamp() int64 {
	return r.now().Unix()
}

func (r *JSONReporter) write(v map[string]interface{}) {
	v["timestamp"] = r.timestamp()

	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_, _ = fmt.Fprintln(r.writer, string(data))
}

func (r *JSONReporter) ScenarioStarted(info ScenarioInfo) {
	r.write(map[string]interface{}{
		"type":          "scenario_started",
		"name":          info.Name,
		"source":        info.Source,
		"run_id":        info.RunID,
		"steps":         info.Steps,
		"limits_source": info.LimitsSource,
	})
}

func (r *JSONReporter) SettingsUpdated(update SettingsUpdate) {
	r.write(map[string]interface{}{
		"type":          "settings_updated",
		"step":          update.Step,
		"cleared":       update.Cleared,
		"codec":         update.Codec,
		"layers":        update.Layers,
		"simulcast":     update.Simulcast,
		"limit_entries": update.LimitEntries,
	})
}

func (r *JSONReporter) BitrateUpdated(update BitrateUpdate) {
	event := map[string]interface{}{
		"type":    "bitrate_updated",
		"step":    update.Step,
		"cleared": update.Cleared,
	}
	if !update.Cleared {
		event["bitrate_bps"] = update.BitrateBps
	}
	r.write(event)
}

func (r *JSONReporter) Decision(d DecisionEvent) {
	event := map[string]interface{}{
		"type":               "decision",
		"step":               d.Step,
		"label":              d.Label,
		"before":             d.Before,
		"after":              d.After,
		"allowed":            d.Allowed,
		"reason":             d.Reason,
		"target_bitrate_bps": d.TargetBitrateBps,
		"current_pixels":     d.CurrentPixels,
		"query_pixels":       d.QueryPixels,
	}
	if d.MinStartBitrateBps != nil {
		event["min_start_bitrate_bps"] = *d.MinStartBitrateBps
	}
	if d.Expected != "" {
		event["expected"] = d.Expected
		event["mismatch"] = d.Mismatch
	}
	r.write(event)
}

// Progress is not emitted; every step already produces its own event.
func (r *JSONReporter) Progress(ProgressSnapshot) {}

func (r *JSONReporter) Warning(message string) {
	r.write(map[string]interface{}{
		"type":    "warning",
		"message": message,
	})
}

func (r *JSONReporter) Error(err ReporterError) {
	r.write(map[string]interface{}{
		"type":       "error",
		"title":      err.Title,
		"message":    err.Message,
		"context":    err.Context,
		"suggestion": err.Suggestion,
	})
}

func (r *JSONReporter) ScenarioComplete(summary ScenarioSummary) {
	r.write(map[string]interface{}{
		"type":        "scenario_complete",
		"name":        summary.Name,
		"run_id":      summary.RunID,
		"proposals":   summary.Proposals,
		"allowed":     summary.Allowed,
		"denied":      summary.Denied,
		"mismatches":  summary.Mismatches,
		"duration_ms": summary.Duration.Milliseconds(),
	})
}

func (r *JSONReporter) BatchComplete(summary BatchSummary) {
	r.write(map[string]interface{}{
		"type":        "batch_complete",
		"scenarios":   summary.Scenarios,
		"proposals":   summary.Proposals,
		"allowed":     summary.Allowed,
		"denied":      summary.Denied,
		"mismatches":  summary.Mismatches,
		"duration_ms": summary.Duration.Milliseconds(),
	})
}
