package reporter

// CompositeReporter fans out events to multiple reporters.
type CompositeReporter struct {
	reporters []Reporter
}

// NewCompositeReporter creates a composite reporter.
func NewCompositeReporter(reporters ...Reporter) *CompositeReporter {
	return &CompositeReporter{reporters: reporters}
}

func (c *CompositeReporter) ScenarioStarted(info ScenarioInfo) {
	for _, r := range c.reporters {
		r.ScenarioStarted(info)
	}
}

func (c *CompositeReporter) SettingsUpdated(update SettingsUpdate) {
	for _, r := range c.reporters {
		r.SettingsUpdated(update)
	}
}

func (c *CompositeReporter) BitrateUpdated(update BitrateUpdate) {
	for _, r := range c.reporters {
		r.BitrateUpdated(update)
	}
}

func (c *CompositeReporter) Decision(event DecisionEvent) {
	for _, r := range c.reporters {
		r.Decision(event)
	}
}

func (c *CompositeReporter) Progress(progress ProgressSnapshot) {
	for _, r := range c.reporters {
		r.Progress(progress)
	}
}

func (c *CompositeReporter) Warning(message string) {
	for _, r := range c.reporters {
		r.Warning(message)
	}
}

func (c *CompositeReporter) Error(err ReporterError) {
	for _, r := range c.reporters {
		r.Error(err)
	}
}

func (c *CompositeReporter) ScenarioComplete(summary ScenarioSummary) {
	for _, r := range c.reporters {
		r.ScenarioComplete(summary)
	}
}

func (c *CompositeReporter) BatchComplete(summary BatchSummary) {
	for _, r := range c.reporters {
		r.BatchComplete(summary)
	}
}
