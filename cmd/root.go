// Package cmd wires the cobra command tree.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Theodoscus/droneUI/cmd/aggregate"
	"github.com/Theodoscus/droneUI/cmd/field"
	"github.com/Theodoscus/droneUI/cmd/process"
	"github.com/Theodoscus/droneUI/internal/conf"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "droneui",
		Short: "AgroDrone crop field scan pipeline",
		Long: `droneui processes drone-captured crop field videos: it detects and tracks
individual plants, records every detection in a per-run log store, archives
one photo per tracked plant, writes an annotated video and maintains a
cross-run field summary used for trend reporting.`,
	}

	setupFlags(rootCmd, settings)

	rootCmd.AddCommand(
		process.Command(settings),
		aggregate.Command(settings),
		field.Command(settings),
	)

	return rootCmd
}

// setupFlags configures the global flags for the root command.
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Main.FieldsDir, "fields-dir", viper.GetString("main.fieldsdir"), "Root directory holding all fields")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		cobra.CheckErr(err)
	}
}
