// Package analysis drives the per-run detection pipeline: the frame batch
// processor, detection recorder, infected frame selector and progress
// estimator.
package analysis

import (
	"log/slog"
	"sync"

	"github.com/Theodoscus/droneUI/internal/logging"
)

var (
	logger     *slog.Logger
	loggerOnce sync.Once
)

// getLogger returns the package logger, initialized on first use so it picks
// up the configuration done by logging.Init.
func getLogger() *slog.Logger {
	loggerOnce.Do(func() {
		logger = logging.ForService("analysis")
	})
	return logger
}
