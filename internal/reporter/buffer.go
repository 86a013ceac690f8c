package reporter

import "sync"

// BufferedReporter records events so they can be forwarded later as one
// uninterrupted block. It lets concurrent replays share an output reporter.
type BufferedReporter struct {
	mu     sync.Mutex
	events []func(Reporter)
}

// NewBufferedReporter creates an empty buffer.
func NewBufferedReporter() *BufferedReporter {
	return &BufferedReporter{}
}

func (b *BufferedReporter) record(fn func(Reporter)) {
	b.mu.Lock()
	b.events = append(b.events, fn)
	b.mu.Unlock()
}

// FlushTo forwards all recorded events to r in order and empties the buffer.
func (b *BufferedReporter) FlushTo(r Reporter) {
	b.mu.Lock()
	events := b.events
	b.events = nil
	b.mu.Unlock()

	for _, fn := range events {
		fn(r)
	}
}

// Len returns the number of recorded events.
func (b *BufferedReporter) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.events)
}

func (b *BufferedReporter) ScenarioStarted(info ScenarioInfo) {
	b.record(func(r Reporter) { r.ScenarioStarted(info) })
}

func (b *BufferedReporter) SettingsUpdated(update SettingsUpdate) {
	b.record(func(r Reporter) { r.SettingsUpdated(update) })
}

func (b *BufferedReporter) BitrateUpdated(update BitrateUpdate) {
	b.record(func(r Reporter) { r.BitrateUpdated(update) })
}

func (b *BufferedReporter) Decision(event DecisionEvent) {
	b.record(func(r Reporter) { r.Decision(event) })
}

// Progress is dropped; a flushed replay is already complete.
func (b *BufferedReporter) Progress(ProgressSnapshot) {}

func (b *BufferedReporter) Warning(message string) {
	b.record(func(r Reporter) { r.Warning(message) })
}

func (b *BufferedReporter) Error(err ReporterError) {
	b.record(func(r Reporter) { r.Error(err) })
}

func (b *BufferedReporter) ScenarioComplete(summary ScenarioSummary) {
	b.record(func(r Reporter) { r.ScenarioComplete(summary) })
}

func (b *BufferedReporter) BatchComplete(summary BatchSummary) {
	b.record(func(r Reporter) { r.BatchComplete(summary) })
}
