package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/five82/resgate/internal/util"
)

// TerminalReporter outputs human-friendly text to the terminal.
type TerminalReporter struct {
	mu           sync.Mutex
	out          io.Writer
	errOut       io.Writer
	showProgress bool
	progress     *progressbar.ProgressBar
	cyan         *color.Color
	green        *color.Color
	greenBold    *color.Color
	yellow       *color.Color
	red          *color.Color
	magenta      *color.Color
	bold         *color.Color
	faint        *color.Color
}

// NewTerminalReporter creates a terminal reporter on stdout and stderr. The
// progress bar is shown only when stderr is a terminal.
func NewTerminalReporter() *TerminalReporter {
	return NewTerminalReporterWithWriter(os.Stdout, os.Stderr, util.IsTerminal(os.Stderr.Fd()))
}

// NewTerminalReporterWithWriter creates a terminal reporter on custom writers.
func NewTerminalReporterWithWriter(out, errOut io.Writer, showProgress bool) *TerminalReporter {
	return &TerminalReporter{
		out:          out,
		errOut:       errOut,
		showProgress: showProgress,
		cyan:         color.New(color.FgCyan, color.Bold),
		green:        color.New(color.FgGreen),
		greenBold:    color.New(color.FgGreen, color.Bold),
		yellow:       color.New(color.FgYellow, color.Bold),
		red:          color.New(color.FgRed, color.Bold),
		magenta:      color.New(color.FgMagenta),
		bold:         color.New(color.Bold),
		faint:        color.New(color.Faint),
	}
}

func (r *TerminalReporter) finishProgress() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.progress != nil {
		_ = r.progress.Finish()
		r.progress = nil
	}
}

// printLabel prints a bold label with fixed width padding followed by a value.
// Width is applied to the plain text before styling to ensure proper alignment.
func (r *TerminalReporter) printLabel(width int, label, value string) {
	paddedLabel := fmt.Sprintf("%-*s", width, label)
	_, _ = fmt.Fprintf(r.out, "  %s %s\n", r.bold.Sprint(paddedLabel), value)
}

func (r *TerminalReporter) ScenarioStarted(info ScenarioInfo) {
	r.finishProgress()

	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "SCENARIO")
	r.printLabel(8, "Name:", info.Name)
	r.printLabel(8, "Source:", info.Source)
	r.printLabel(8, "Steps:", fmt.Sprint(info.Steps))
	r.printLabel(8, "Limits:", info.LimitsSource)
	r.printLabel(8, "Run:", r.faint.Sprint(info.RunID))

	if !r.showProgress || info.Steps == 0 {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = progressbar.NewOptions(
		info.Steps,
		progressbar.OptionSetDescription(""),
		progressbar.OptionSetWidth(40),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(r.errOut),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "Replay [",
			BarEnd:        "]",
		}),
	)
}

func (r *TerminalReporter) SettingsUpdated(update SettingsUpdate) {
	if update.Cleared {
		r.printStep(update.Step, "encoder settings cleared")
		return
	}
	mode := "singlecast"
	if update.Simulcast {
		mode = "simulcast"
	}
	r.printStep(update.Step, fmt.Sprintf("encoder settings: %s %s [%s], %d limit entries",
		update.Codec, mode, strings.Join(update.Layers, " "), update.LimitEntries))
}

func (r *TerminalReporter) BitrateUpdated(update BitrateUpdate) {
	if update.Cleared {
		r.printStep(update.Step, "target bitrate cleared")
		return
	}
	r.printStep(update.Step, "target bitrate "+util.FormatBitrate(uint64(update.BitrateBps)))
}

func (r *TerminalReporter) printStep(step int, message string) {
	_, _ = fmt.Fprintf(r.out, "  %s %s %s\n", r.faint.Sprintf("%3d", step), r.magenta.Sprint("›"), message)
}

func (r *TerminalReporter) Decision(event DecisionEvent) {
	verdict := r.greenBold.Sprint("ALLOW")
	if !event.Allowed {
		verdict = r.red.Sprint("DENY ")
	}

	label := event.Label
	if label == "" {
		label = fmt.Sprintf("%s -> %s", event.Before, event.After)
	}
	_, _ = fmt.Fprintf(r.out, "  %s %s %s %s (%s)\n",
		r.faint.Sprintf("%3d", event.Step), r.magenta.Sprint("›"), verdict, label, event.Reason)

	if event.MinStartBitrateBps != nil {
		_, _ = fmt.Fprintf(r.out, "        target %s, needs %s for %s\n",
			util.FormatBitrate(uint64(event.TargetBitrateBps)),
			util.FormatBitrate(uint64(*event.MinStartBitrateBps)),
			util.FormatPixels(event.QueryPixels))
	}
	if event.Mismatch {
		_, _ = r.yellow.Fprintf(r.out, "        expected %s\n", event.Expected)
	}
}

func (r *TerminalReporter) Progress(progress ProgressSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.progress == nil {
		return
	}
	_ = r.progress.Set(progress.Current)
}

func (r *TerminalReporter) Warning(message string) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.yellow.Fprintf(r.out, "WARN: %s\n", message)
}

func (r *TerminalReporter) Error(err ReporterError) {
	_, _ = fmt.Fprintln(r.errOut)
	_, _ = r.red.Fprintf(r.errOut, "ERROR %s\n", err.Title)
	_, _ = fmt.Fprintf(r.errOut, "  %s\n", err.Message)
	if err.Context != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Context: %s\n", err.Context)
	}
	if err.Suggestion != "" {
		_, _ = fmt.Fprintf(r.errOut, "  Suggestion: %s\n", err.Suggestion)
	}
}

func (r *TerminalReporter) ScenarioComplete(summary ScenarioSummary) {
	r.finishProgress()

	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "RESULTS")
	r.printLabel(10, "Proposals:", fmt.Sprint(summary.Proposals))
	r.printLabel(10, "Allowed:", r.green.Sprint(summary.Allowed))
	r.printLabel(10, "Denied:", r.red.Sprint(summary.Denied))
	if summary.Mismatches > 0 {
		r.printLabel(10, "Mismatch:", r.yellow.Sprint(summary.Mismatches))
	} else {
		r.printLabel(10, "Mismatch:", "0")
	}
	r.printLabel(10, "Time:", summary.Duration.String())
}

func (r *TerminalReporter) BatchComplete(summary BatchSummary) {
	_, _ = fmt.Fprintln(r.out)
	_, _ = r.cyan.Fprintln(r.out, "BATCH SUMMARY")
	_, _ = fmt.Fprintf(r.out, "  %s\n", r.bold.Sprintf("%d scenarios, %d proposals", summary.Scenarios, summary.Proposals))
	_, _ = fmt.Fprintf(r.out, "  Decisions: %s allowed, %s denied (%.1f%% allowed)\n",
		r.green.Sprint(summary.Allowed),
		r.red.Sprint(summary.Denied),
		util.Percent(summary.Allowed, summary.Proposals))
	_, _ = fmt.Fprintf(r.out, "  Time: %s\n", util.FormatDuration(summary.Duration.Seconds()))

	for _, result := range summary.Results {
		status := r.green.Sprint("✓")
		if result.Mismatches > 0 {
			status = r.red.Sprint("✗")
		}
		_, _ = fmt.Fprintf(r.out, "  %s %s (%d mismatches)\n", status, result.Name, result.Mismatches)
	}

	if summary.Mismatches == 0 {
		_, _ = fmt.Fprintf(r.out, "\n%s %s\n", r.greenBold.Sprint("✓"), r.bold.Sprint("All expectations met"))
	}
}
