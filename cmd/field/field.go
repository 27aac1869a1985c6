// Package field implements field management commands.
package field

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Theodoscus/droneUI/internal/conf"
)

// Command creates the field command with its subcommands.
func Command(settings *conf.Settings) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "field",
		Short: "Manage fields",
	}

	cmd.AddCommand(createCommand(settings), listCommand(settings))

	return cmd
}

func createCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fieldPath := settings.FieldDir(args[0])
			if _, err := os.Stat(fieldPath); err == nil {
				return fmt.Errorf("field %q already exists", args[0])
			}
			for _, dir := range []string{"runs", "flights"} {
				if err := os.MkdirAll(filepath.Join(fieldPath, dir), 0o755); err != nil {
					return fmt.Errorf("creating field %q: %w", args[0], err)
				}
			}
			fmt.Printf("Field %q created at %s\n", args[0], fieldPath)
			return nil
		},
	}
}

func listCommand(settings *conf.Settings) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List existing fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := os.ReadDir(settings.Main.FieldsDir)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Println("No fields yet")
					return nil
				}
				return err
			}
			for _, entry := range entries {
				if entry.IsDir() {
					fmt.Println(entry.Name())
				}
			}
			return nil
		},
	}
}
