package main

import (
	"github.com/spf13/cobra"

	"schedule-engine/internal/scenario"
	"schedule-engine/internal/schedio"
)

// compareOutput bundles the generated scenarios with their comparison.
type compareOutput struct {
	Scenarios  []scenario.Scenario  `json:"scenarios"`
	Comparison *scenario.Comparison `json:"comparison,omitempty"`
}

func newCompareCmd() *cobra.Command {
	var schedulePath, scenariosPath string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Generate schedule scenarios and compare them",
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
			defs, err := schedio.LoadScenarioDefs(scenariosPath)
			if err != nil {
				return err
			}
			reg, err := a.catalogFor(s)
			if err != nil {
				return err
			}

			comparator := scenario.NewComparator(a.cfg.Scenario, a.engine,
				scenario.WithRegistry(reg),
				scenario.WithTravelEstimator(a.deps.Travel),
				scenario.WithLogger(a.logger),
				scenario.WithRecorder(a.recorder),
			)
			scenarios, err := comparator.GenerateScenarios(ctx, s, reg.All(), defs)
			if err != nil {
				return err
			}

			out := compareOutput{Scenarios: scenarios}
			ids := make([]string, len(scenarios))
			valid := 0
			for i, sc := range scenarios {
				ids[i] = sc.ID
				if sc.Valid() {
					valid++
				}
			}
			if valid >= 2 {
				cmp, cmpErr := comparator.CompareScenarios(ids)
				if cmpErr != nil {
					return cmpErr
				}
				out.Comparison = cmp
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "path to the schedule JSON file")
	cmd.Flags().StringVarP(&scenariosPath, "scenarios", "c", "", "path to the scenario definitions YAML file")
	_ = cmd.MarkFlagRequired("schedule")
	_ = cmd.MarkFlagRequired("scenarios")
	return cmd
}
