package analysis

import (
	"fmt"
	"time"
)

// emaAlpha is the smoothing factor of the per-frame time estimate. Higher
// values favor the most recent batch.
const emaAlpha = 0.3

// ProgressEstimator tracks processing throughput and computes an ETA for the
// remaining frames. It is process-local and reset at the start of each run:
// idle until the first batch is observed, running afterwards.
type ProgressEstimator struct {
	perFrame time.Duration
	running  bool
}

// NewProgressEstimator returns an estimator in the idle state.
func NewProgressEstimator() *ProgressEstimator {
	return &ProgressEstimator{}
}

// Observe feeds the estimator one completed batch. Batches with no frames
// are ignored.
func (pe *ProgressEstimator) Observe(frames int, elapsed time.Duration) {
	if frames <= 0 {
		return
	}
	sample := elapsed / time.Duration(frames)
	if !pe.running {
		pe.perFrame = sample
		pe.running = true
		return
	}
	pe.perFrame = time.Duration(emaAlpha*float64(sample) + (1-emaAlpha)*float64(pe.perFrame))
}

// ETA returns the estimated time remaining for the given number of frames.
// It reports false while the estimator is idle. The result is never negative.
func (pe *ProgressEstimator) ETA(remainingFrames int) (time.Duration, bool) {
	if !pe.running {
		return 0, false
	}
	if remainingFrames < 0 {
		remainingFrames = 0
	}
	return pe.perFrame * time.Duration(remainingFrames), true
}

// FormatETA renders a duration as H:MM:SS.
func FormatETA(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Round(time.Second)
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
}
