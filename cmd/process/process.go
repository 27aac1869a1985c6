// Package process implements the command that runs the detection pipeline
// over one flight video.
package process

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Theodoscus/droneUI/internal/analysis"
	"github.com/Theodoscus/droneUI/internal/conf"
)

// Command creates the process command.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [video file]",
		Short: "Process a flight video into a new run",
		Long: `Process a drone flight video: detect and track plants frame by frame,
record every detection in the run's log store, archive one photo per tracked
plant, export the most affected frames and write an annotated copy of the
video into a new run directory under the field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings.Input.Path = args[0]
			if settings.Input.Field == "" {
				return fmt.Errorf("--field is required")
			}

			stats, err := analysis.ProcessVideo(cmd.Context(), settings)
			if err != nil {
				return err
			}

			fmt.Printf("Run %s completed: %d frames, %d detections, %d photos, %d infected stills (%s)\n",
				stats.Run.ID,
				stats.FramesProcessed,
				stats.DetectionRows,
				stats.PhotosArchived,
				stats.InfectedExported,
				stats.Elapsed.Round(time.Second))
			return nil
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the process command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVarP(&settings.Input.Field, "field", "f", "", "Field the flight belongs to")
	cmd.Flags().StringVar(&settings.Processing.FlightDuration, "duration", settings.Processing.FlightDuration, "Flight duration recorded with the run")
	cmd.Flags().IntVar(&settings.Processing.BatchSize, "batch-size", settings.Processing.BatchSize, "Frames per detector batch")
	cmd.Flags().IntVar(&settings.Processing.TopInfected, "top-infected", settings.Processing.TopInfected, "Number of most affected frames to export")
	cmd.Flags().StringVar(&settings.Detector.ModelPath, "model", settings.Detector.ModelPath, "Path to the detection model")
}
