package reporter

// Reporter defines the interface for replay and decision reporting.
type Reporter interface {
	ScenarioStarted(info ScenarioInfo)
	SettingsUpdated(update SettingsUpdate)
	BitrateUpdated(update BitrateUpdate)
	Decision(event DecisionEvent)
	Progress(progress ProgressSnapshot)
	Warning(message string)
	Error(err ReporterError)
	ScenarioComplete(summary ScenarioSummary)
	BatchComplete(summary BatchSummary)
}

// NullReporter is a no-op reporter that discards all updates.
type NullReporter struct{}

func (NullReporter) ScenarioStarted(ScenarioInfo)     {}
func (NullReporter) SettingsUpdated(SettingsUpdate)   {}
func (NullReporter) BitrateUpdated(BitrateUpdate)     {}
func (NullReporter) Decision(DecisionEvent)           {}
func (NullReporter) Progress(ProgressSnapshot)        {}
func (NullReporter) Warning(string)                   {}
func (NullReporter) Error(ReporterError)              {}
func (NullReporter) ScenarioComplete(ScenarioSummary) {}
func (NullReporter) BatchComplete(BatchSummary)       {}
