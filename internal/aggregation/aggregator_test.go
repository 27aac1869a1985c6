package aggregation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Theodoscus/droneUI/internal/datastore"
)

func row(frame, trackID int, class string, confidence float64) datastore.FlightResult {
	return datastore.FlightResult{
		Frame:          frame,
		TrackID:        trackID,
		Class:          class,
		BBox:           "0.00,0.00,10.00,10.00",
		Confidence:     confidence,
		FlightDuration: "0:03:20",
	}
}

// writeRunLog creates a run directory with a populated log store under the
// field's runs folder.
func writeRunLog(t *testing.T, fieldPath, runID string, rows []datastore.FlightResult) {
	t.Helper()
	runDir := filepath.Join(fieldPath, "runs", runID)
	require.NoError(t, os.MkdirAll(runDir, 0o755))

	store, err := datastore.OpenFlightStore(filepath.Join(runDir, "flight_data.db"))
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	require.NoError(t, store.SaveBatch(rows))
}

func openFieldStore(t *testing.T, fieldPath string) *datastore.FieldStore {
	t.Helper()
	store, err := datastore.OpenFieldStore(filepath.Join(fieldPath, "field_data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestResolveBestLabelsHighestConfidenceWins(t *testing.T) {
	picks := ResolveBestLabels([]datastore.FlightResult{
		row(0, 1, "Healthy", 0.9),
		row(1, 1, "Septoria", 0.95), // later but more confident
		row(2, 1, "Healthy", 0.5),
	})

	require.Len(t, picks, 1)
	assert.Equal(t, "Septoria", picks[1].Class)
	assert.InDelta(t, 0.95, picks[1].Confidence, 1e-9)
}

func TestResolveBestLabelsFirstSeenWinsExactTie(t *testing.T) {
	picks := ResolveBestLabels([]datastore.FlightResult{
		row(0, 1, "Early Blight", 0.8),
		row(1, 1, "Late Blight", 0.8), // exact tie, first row wins
	})

	assert.Equal(t, "Early Blight", picks[1].Class)
}

func TestSummarizeSpecScenario(t *testing.T) {
	// 3 detections: id 1 healthy twice, id 2 septoria once
	picks := ResolveBestLabels([]datastore.FlightResult{
		row(0, 1, "Healthy", 0.9),
		row(1, 1, "Healthy", 0.95),
		row(2, 2, "Septoria", 0.8),
	})
	summary := Summarize("run_20250101_120000", "20250101_120000", "0:03:20", picks)

	assert.Equal(t, 2, summary.TotalPlants)
	assert.Equal(t, 1, summary.HealthyPlants)
	assert.Equal(t, 1, summary.Septoria)
	assert.Equal(t, 1, summary.AffectedPlants())
}

func TestSummarizeUnrecognizedLabelCountsTotalOnly(t *testing.T) {
	picks := ResolveBestLabels([]datastore.FlightResult{
		row(0, 1, "Weird Label", 0.9),
		row(1, 2, "Healthy", 0.9),
	})
	summary := Summarize("run_20250101_120000", "20250101_120000", "Unknown", picks)

	assert.Equal(t, 2, summary.TotalPlants)
	assert.Equal(t, 1, summary.HealthyPlants)
	assert.Equal(t, 0, summary.AffectedPlants(), "unknown labels fall in no disease bucket")
}

func TestSweepAggregatesAllRuns(t *testing.T) {
	fieldPath := t.TempDir()
	writeRunLog(t, fieldPath, "run_20250101_100000", []datastore.FlightResult{
		row(0, 1, "Healthy", 0.9),
		row(1, 2, "Septoria", 0.8),
	})
	writeRunLog(t, fieldPath, "run_20250102_100000", []datastore.FlightResult{
		row(0, 1, "Early Blight", 0.7),
	})

	report, err := Sweep(fieldPath)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Aggregated)
	assert.Empty(t, report.Skipped)

	store := openFieldStore(t, fieldPath)
	summaries, err := store.All()
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	assert.Equal(t, "run_20250101_100000", summaries[0].RunID)
	assert.Equal(t, "20250101_100000", summaries[0].FlightDatetime)
	assert.Equal(t, "0:03:20", summaries[0].FlightDuration)
	assert.Equal(t, 2, summaries[0].TotalPlants)
	assert.Equal(t, 1, summaries[0].HealthyPlants)
	assert.Equal(t, 1, summaries[0].Septoria)

	assert.Equal(t, 1, summaries[1].TotalPlants)
	assert.Equal(t, 1, summaries[1].EarlyBlight)
}

func TestSweepIsIdempotent(t *testing.T) {
	fieldPath := t.TempDir()
	writeRunLog(t, fieldPath, "run_20250101_100000", []datastore.FlightResult{
		row(0, 1, "Healthy", 0.9),
	})

	_, err := Sweep(fieldPath)
	require.NoError(t, err)
	store := openFieldStore(t, fieldPath)
	first, err := store.All()
	require.NoError(t, err)

	_, err = Sweep(fieldPath)
	require.NoError(t, err)
	second, err := store.All()
	require.NoError(t, err)

	assert.Equal(t, first, second, "re-running the sweep must not change any row")
}

func TestSweepEmptyLogStoreYieldsZeroRow(t *testing.T) {
	fieldPath := t.TempDir()
	writeRunLog(t, fieldPath, "run_20250101_100000", nil)

	report, err := Sweep(fieldPath)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Aggregated)

	store := openFieldStore(t, fieldPath)
	summary, err := store.Get("run_20250101_100000")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.TotalPlants)
	assert.Equal(t, "Unknown", summary.FlightDuration)
}

func TestSweepSkipsRunWithDeletedLogStore(t *testing.T) {
	fieldPath := t.TempDir()
	writeRunLog(t, fieldPath, "run_20250101_100000", []datastore.FlightResult{
		row(0, 1, "Healthy", 0.9),
	})

	_, err := Sweep(fieldPath)
	require.NoError(t, err)

	// the log store disappears between sweeps
	require.NoError(t, os.Remove(filepath.Join(fieldPath, "runs", "run_20250101_100000", "flight_data.db")))

	report, err := Sweep(fieldPath)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Aggregated)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, "run_20250101_100000", report.Skipped[0].RunID)

	// policy: the stale summary row is retained
	store := openFieldStore(t, fieldPath)
	summary, err := store.Get("run_20250101_100000")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.TotalPlants)
}

func TestSweepFieldWithoutRuns(t *testing.T) {
	report, err := Sweep(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, report.Aggregated)
	assert.Empty(t, report.Skipped)
}
