package main

import (
	"github.com/spf13/cobra"

	"schedule-engine/internal/engine"
	"schedule-engine/internal/schedio"
)

func newEvaluateCmd() *cobra.Command {
	var schedulePath string

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Evaluate a schedule and print the constraint report",
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

			report, err := a.engine.Evaluate(ctx, s, reg.All(), engine.Options{})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "path to the schedule JSON file")
	_ = cmd.MarkFlagRequired("schedule")
	return cmd
}
