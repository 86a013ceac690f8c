package reporter

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/five82/resgate/internal/util"
)

// TableReporter collects decisions and renders them as a table when each
// scenario completes, followed by a batch summary table.
type TableReporter struct {
	mu       sync.Mutex
	writer   io.Writer
	scenario string
	rows     []table.Row
}

// NewTableReporter creates a table reporter that writes to stdout.
func NewTableReporter() *TableReporter {
	return NewTableReporterWithWriter(os.Stdout)
}

// NewTableReporterWithWriter creates a table reporter with a custom writer.
func NewTableReporterWithWriter(w io.Writer) *TableReporter {
	return &TableReporter{writer: w}
}

func (r *TableReporter) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(r.writer)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	return t
}

func (r *TableReporter) ScenarioStarted(info ScenarioInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenario = info.Name
	r.rows = r.rows[:0]
}

func (r *TableReporter) SettingsUpdated(SettingsUpdate) {}
func (r *TableReporter) BitrateUpdated(BitrateUpdate)   {}
func (r *TableReporter) Progress(ProgressSnapshot)      {}

func (r *TableReporter) Decision(d DecisionEvent) {
	needs := "-"
	if d.MinStartBitrateBps != nil {
		needs = util.FormatBitrate(uint64(*d.MinStartBitrateBps))
	}
	target := "-"
	if d.TargetBitrateBps > 0 {
		target = util.FormatBitrate(uint64(d.TargetBitrateBps))
	}
	expected := d.Expected
	if d.Mismatch {
		expected += " ✗"
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, table.Row{d.Step, d.Before, d.After, target, needs, d.Verdict(), d.Reason, expected})
}

func (r *TableReporter) Warning(message string) {
	_, _ = fmt.Fprintf(r.writer, "WARN: %s\n", message)
}

func (r *TableReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintf(r.writer, "ERROR %s: %s\n", err.Title, err.Message)
}

func (r *TableReporter) ScenarioComplete(summary ScenarioSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.newTable(r.scenario)
	t.AppendHeader(table.Row{"Step", "Before", "After", "Target", "Needs", "Verdict", "Reason", "Expected"})
	t.AppendRows(r.rows)
	t.AppendFooter(table.Row{"", "", "", "", "", fmt.Sprintf("%d/%d", summary.Allowed, summary.Proposals), "allowed", summary.Mismatches})
	t.Render()
	r.rows = r.rows[:0]
}

func (r *TableReporter) BatchComplete(summary BatchSummary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.newTable("Batch summary")
	t.AppendHeader(table.Row{"Scenario", "Proposals", "Allowed", "Denied", "Mismatches"})
	for _, s := range summary.Results {
		t.AppendRow(table.Row{s.Name, s.Proposals, s.Allowed, s.Denied, s.Mismatches})
	}
	t.AppendFooter(table.Row{"Total", summary.Proposals, summary.Allowed, summary.Denied, summary.Mismatches})
	t.Render()
}

// RenderLimits writes a limit table with one row per resolution.
func RenderLimits(w io.Writer, title string, rows [][4]int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Frame size", "Min start", "Min", "Max"})
	for _, row := range rows {
		t.AppendRow(table.Row{
			util.FormatPixels(row[0]),
			util.FormatBitrate(uint64(row[1])),
			util.FormatBitrate(uint64(row[2])),
			util.FormatBitrate(uint64(row[3])),
		})
	}
	t.Render()
}
