package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/resgate/internal/discovery"
	"github.com/five82/resgate/internal/errors"
	"github.com/five82/resgate/internal/logging"
	"github.com/five82/resgate/internal/reporter"
	"github.com/five82/resgate/internal/scenario"
	"github.com/five82/resgate/internal/util"
)

func (a *app) newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <scenario.yaml|dir>...",
		Short: "Replay scenario files through the gate",
		Long: `Replay one or more YAML scenario files. Directories are searched for
.yaml and .yml files. The command fails when any decision differs from the
expectation recorded in its scenario.`,
		Args: cobra.MinimumNArgs(1),
		RunE: a.runReplay,
	}
	cmd.Flags().IntP("jobs", "j", 1, "number of scenarios to replay concurrently")
	return cmd
}

func (a *app) runReplay(cmd *cobra.Command, args []string) error {
	paths, err := expandScenarioPaths(args)
	if err != nil {
		return err
	}

	scenarios := make([]*scenario.Scenario, 0, len(paths))
	for _, path := range paths {
		sc, err := scenario.Load(path)
		if err != nil {
			return err
		}
		scenarios = append(scenarios, sc)
	}

	source, limits, err := a.limits()
	if err != nil {
		return err
	}

	rep := a.newReporter()
	rp := scenario.NewReplayer(
		scenario.WithReporter(rep),
		scenario.WithDefaultLimits(source, limits),
		scenario.WithJobs(a.v.GetInt("jobs")),
	)
	batch, err := rp.RunAll(cmd.Context(), scenarios)
	if err != nil {
		if errors.IsCancelled(err) {
			rep.Warning("replay cancelled")
		}
		return err
	}

	if batch.Mismatches > 0 {
		rep.Error(reporter.ReporterError{
			Title:      "Expectation mismatch",
			Message:    fmt.Sprintf("%d of %d decisions differed from their expectation", batch.Mismatches, batch.Proposals),
			Suggestion: "Check the limit table or the scenario's expect values",
		})
		return errors.NewMismatchesError(batch.Mismatches, batch.Proposals)
	}
	return nil
}

// expandScenarioPaths replaces directory arguments with the scenario files
// they contain.
func expandScenarioPaths(args []string) ([]string, error) {
	log := logging.Global().WithPrefix("discovery")
	var paths []string
	for _, arg := range args {
		if util.FileExists(arg) {
			paths = append(paths, arg)
			continue
		}
		if !util.DirectoryExists(arg) {
			return nil, errors.NewPathError("scenario path does not exist: " + arg)
		}
		result, err := discovery.FindScenarioFilesWithLogging(arg, log)
		if err != nil {
			return nil, err
		}
		paths = append(paths, result.Files...)
	}
	return paths, nil
}
