// Package aggregation folds every completed run of a field into the field's
// summary store, one row per run. Sweeps are idempotent: revisiting an
// unchanged run upserts an identical row.
package aggregation

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Theodoscus/droneUI/internal/datastore"
	"github.com/Theodoscus/droneUI/internal/disease"
	"github.com/Theodoscus/droneUI/internal/errors"
	"github.com/Theodoscus/droneUI/internal/logging"
	"github.com/Theodoscus/droneUI/internal/run"
)

var (
	logger     *slog.Logger
	loggerOnce sync.Once
)

func getLogger() *slog.Logger {
	loggerOnce.Do(func() {
		logger = logging.ForService("aggregation")
	})
	return logger
}

// SkipEntry reports one run that could not be aggregated during a sweep.
type SkipEntry struct {
	RunID  string
	Reason string
}

// Report summarizes a field sweep.
type Report struct {
	Aggregated int
	Skipped    []SkipEntry
}

// TrackPick is the resolved class of one tracked object.
type TrackPick struct {
	Class      string
	Confidence float64
}

// betterPick decides whether candidate replaces current as a track's best
// label: highest confidence wins, the earlier row wins exact ties. This is
// the authoritative tie-break contract of the summary store.
func betterPick(current, candidate TrackPick) bool {
	return candidate.Confidence > current.Confidence
}

// ResolveBestLabels reduces a run's detection rows to one best label per
// track id. Rows must be in append (first-seen) order.
func ResolveBestLabels(results []datastore.FlightResult) map[int]TrackPick {
	picks := make(map[int]TrackPick)
	for i := range results {
		candidate := TrackPick{Class: results[i].Class, Confidence: results[i].Confidence}
		current, seen := picks[results[i].TrackID]
		if !seen || betterPick(current, candidate) {
			picks[results[i].TrackID] = candidate
		}
	}
	return picks
}

// Summarize builds a run's summary row from its resolved tracks. Tracks with
// labels outside the fixed category set count toward TotalPlants only.
func Summarize(runID, flightDatetime, flightDuration string, picks map[int]TrackPick) *datastore.FieldSummary {
	summary := &datastore.FieldSummary{
		RunID:          runID,
		FlightDatetime: flightDatetime,
		FlightDuration: flightDuration,
	}
	for _, pick := range picks {
		summary.TotalPlants++
		if disease.IsHealthy(pick.Class) {
			summary.HealthyPlants++
			continue
		}
		if !summary.AddDisease(disease.Normalize(pick.Class)) {
			getLogger().Debug("label outside the known category set",
				"run", runID,
				"class", pick.Class)
		}
	}
	return summary
}

// Sweep aggregates every run under the field's runs directory into the
// field's summary store. A run whose log store is missing or unreadable is
// skipped with a warning and keeps its previous summary row; failures on the
// summary store itself abort the sweep.
func Sweep(fieldPath string) (*Report, error) {
	runsDir := filepath.Join(fieldPath, "runs")
	entries, err := os.ReadDir(runsDir)
	if err != nil {
		if os.IsNotExist(err) {
			getLogger().Warn("field has no runs directory, nothing to aggregate", "field", fieldPath)
			return &Report{}, nil
		}
		return nil, errors.New(err).
			Component("aggregation").
			Category(errors.CategoryResource).
			Context("runs_dir", runsDir).
			Build()
	}

	var runIDs []string
	for _, entry := range entries {
		if entry.IsDir() && strings.HasPrefix(entry.Name(), run.Prefix) {
			runIDs = append(runIDs, entry.Name())
		}
	}
	sort.Strings(runIDs) // run ids embed timestamps, lexical = chronological

	fieldStore, err := datastore.OpenFieldStore(filepath.Join(fieldPath, "field_data.db"))
	if err != nil {
		return nil, err
	}
	defer fieldStore.Close()

	report := &Report{}
	for _, runID := range runIDs {
		summary, err := aggregateRun(runsDir, runID)
		if err != nil {
			report.Skipped = append(report.Skipped, SkipEntry{RunID: runID, Reason: err.Error()})
			getLogger().Warn("skipping run during field sweep",
				"run", runID,
				"reason", err.Error())
			continue
		}
		if err := fieldStore.Upsert(summary); err != nil {
			return nil, err
		}
		report.Aggregated++
	}
	return report, nil
}

// aggregateRun derives a single run's summary row from its log store.
func aggregateRun(runsDir, runID string) (*datastore.FieldSummary, error) {
	r := run.Open(runsDir, runID)

	if _, err := os.Stat(r.LogStorePath()); err != nil {
		return nil, errors.Newf("log store missing: %w", err).
			Component("aggregation").
			Category(errors.CategoryAggregation).
			Context("run", runID).
			Build()
	}

	store, err := datastore.OpenFlightStore(r.LogStorePath())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	duration, err := store.FlightDuration()
	if err != nil {
		return nil, err
	}
	results, err := store.Results()
	if err != nil {
		return nil, err
	}

	return Summarize(runID, r.FlightDatetime(), duration, ResolveBestLabels(results)), nil
}
