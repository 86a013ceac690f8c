package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/five82/resgate/internal/config"
	"github.com/five82/resgate/internal/encoder"
	"github.com/five82/resgate/internal/reporter"
)

func (a *app) newLimitsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "Print the resolution bitrate limit table",
		Long:  "Print the limit table selected by --preset or --limits-file, ordered by frame size.",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			source, limits, err := a.limits()
			if err != nil {
				return err
			}
			return a.printLimits(source, limits)
		},
	}
}

func (a *app) printLimits(source string, limits []encoder.ResolutionBitrateLimits) error {
	sorted := encoder.SortedLimits(limits)

	if a.cfg.OutputFormat == "json" {
		entries := make([]config.LimitEntry, 0, len(sorted))
		for _, l := range sorted {
			entries = append(entries, config.LimitEntry{
				FrameSizePixels:    l.FrameSizePixels,
				MinStartBitrateBps: l.MinStartBitrateBps,
				MinBitrateBps:      l.MinBitrateBps,
				MaxBitrateBps:      l.MaxBitrateBps,
			})
		}
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]interface{}{"source": source, "limits": entries})
	}

	rows := make([][4]int, 0, len(sorted))
	for _, l := range sorted {
		rows = append(rows, [4]int{l.FrameSizePixels, l.MinStartBitrateBps, l.MinBitrateBps, l.MaxBitrateBps})
	}
	reporter.RenderLimits(a.out, "Limits: "+source, rows)
	return nil
}
