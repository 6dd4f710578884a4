package main

import (
	"github.com/spf13/cobra"

	"schedule-engine/internal/conflict"
	"schedule-engine/internal/schedio"
)

// conflictEntry pairs a detected conflict with its ranked resolutions.
type conflictEntry struct {
	Conflict    conflict.Conflict     `json:"conflict"`
	Resolutions []conflict.Resolution `json:"resolutions"`
}

func newConflictsCmd() *cobra.Command {
	var schedulePath string

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Detect cross-constraint conflicts and suggest resolutions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx)
			if err != nil {
				return err
			}
			defer a.close(ctx)

			s, err := schedio.LoadSchedule(schedulePath)
			if err != nil {
				return err
			}
			reg, err := a.catalogFor(s)
			if err != nil {
				return err
			}

			detector := conflict.NewDetector(a.engine, a.logger, conflict.WithRecorder(a.recorder))
			conflicts, err := detector.FindConflicts(ctx, s, reg.All())
			if err != nil {
				return err
			}

			entries := make([]conflictEntry, len(conflicts))
			for i, c := range conflicts {
				entries[i] = conflictEntry{
					Conflict:    c,
					Resolutions: detector.SuggestResolutions(c, s),
				}
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}

	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "path to the schedule JSON file")
	_ = cmd.MarkFlagRequired("schedule")
	return cmd
}
