// Package aggregate implements the command that folds all of a field's runs
// into its summary store.
package aggregate

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Theodoscus/droneUI/internal/aggregation"
	"github.com/Theodoscus/droneUI/internal/conf"
)

// Command creates the aggregate command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Rebuild a field's run summaries",
		Long: `Scan every run of a field and upsert one summary row per run into the
field's summary store. Runs with a missing or unreadable log store are
skipped and keep their previous row.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if settings.Input.Field == "" {
				return fmt.Errorf("--field is required")
			}

			report, err := aggregation.Sweep(settings.FieldDir(settings.Input.Field))
			if err != nil {
				return err
			}

			fmt.Printf("Aggregated %d run(s)\n", report.Aggregated)
			for _, skip := range report.Skipped {
				fmt.Printf("Skipped %s: %s\n", skip.RunID, skip.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&settings.Input.Field, "field", "f", "", "Field to aggregate")

	return cmd
}
