package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Theodoscus/droneUI/cmd"
	"github.com/Theodoscus/droneUI/internal/conf"
	"github.com/Theodoscus/droneUI/internal/logging"
)

func main() {
	settings, err := conf.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading configuration: %v\n", err)
		os.Exit(1)
	}

	logging.Init(settings.Debug)

	if settings.Main.Log.Enabled {
		fileLogger, closeLog, err := logging.NewFileLogger(settings.Main.Log.Path, "droneui", slog.LevelInfo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error setting up file logging: %v\n", err)
			os.Exit(1)
		}
		defer closeLog() //nolint:errcheck // process is exiting
		fileLogger.Info("starting", "args", os.Args[1:])
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := cmd.RootCommand(settings)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
