package datastore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newFlightStore(t *testing.T) *FlightStore {
	t.Helper()
	store, err := OpenFlightStore(filepath.Join(t.TempDir(), "flight_data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func newFieldStore(t *testing.T) *FieldStore {
	t.Helper()
	store, err := OpenFieldStore(filepath.Join(t.TempDir(), "field_data.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func TestFlightStoreSaveBatchAndResultsOrder(t *testing.T) {
	store := newFlightStore(t)

	require.NoError(t, store.SaveBatch([]FlightResult{
		{Frame: 0, TrackID: 1, Class: "Healthy", BBox: "1.00,2.00,3.00,4.00", Confidence: 0.9, FlightDuration: "0:01:00"},
		{Frame: 0, TrackID: 2, Class: "Septoria", BBox: "5.00,6.00,7.00,8.00", Confidence: 0.8, FlightDuration: "0:01:00"},
	}))
	require.NoError(t, store.SaveBatch([]FlightResult{
		{Frame: 1, TrackID: 1, Class: "Healthy", BBox: "1.00,2.00,3.00,4.00", Confidence: 0.95, FlightDuration: "0:01:00"},
	}))

	results, err := store.Results()
	require.NoError(t, err)
	require.Len(t, results, 3)

	// append order survives the round trip
	assert.Equal(t, []int{0, 0, 1}, []int{results[0].Frame, results[1].Frame, results[2].Frame})
	assert.Equal(t, "Septoria", results[1].Class)
	assert.Equal(t, "5.00,6.00,7.00,8.00", results[1].BBox)
}

func TestFlightStoreEmptyBatchIsNoOp(t *testing.T) {
	store := newFlightStore(t)

	require.NoError(t, store.SaveBatch(nil))

	results, err := store.Results()
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestFlightStoreDuration(t *testing.T) {
	store := newFlightStore(t)

	duration, err := store.FlightDuration()
	require.NoError(t, err)
	assert.Equal(t, "Unknown", duration, "a run with no rows has no recorded duration")

	require.NoError(t, store.SaveBatch([]FlightResult{
		{Frame: 0, TrackID: 1, Class: "Healthy", Confidence: 0.9, FlightDuration: "0:03:20"},
	}))

	duration, err = store.FlightDuration()
	require.NoError(t, err)
	assert.Equal(t, "0:03:20", duration)
}

func TestFieldStoreUpsertReplacesRow(t *testing.T) {
	store := newFieldStore(t)

	require.NoError(t, store.Upsert(&FieldSummary{
		RunID:       "run_20250101_100000",
		TotalPlants: 3,
		Septoria:    1,
	}))
	require.NoError(t, store.Upsert(&FieldSummary{
		RunID:         "run_20250101_100000",
		TotalPlants:   5,
		HealthyPlants: 5,
	}))

	summary, err := store.Get("run_20250101_100000")
	require.NoError(t, err)
	assert.Equal(t, 5, summary.TotalPlants)
	assert.Equal(t, 5, summary.HealthyPlants)
	assert.Equal(t, 0, summary.Septoria, "replaced row must not keep stale counters")

	all, err := store.All()
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert on the same run id must not add rows")
}

func TestFieldStoreAllOrderedByRunID(t *testing.T) {
	store := newFieldStore(t)

	require.NoError(t, store.Upsert(&FieldSummary{RunID: "run_20250102_100000"}))
	require.NoError(t, store.Upsert(&FieldSummary{RunID: "run_20250101_100000"}))

	all, err := store.All()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "run_20250101_100000", all[0].RunID)
	assert.Equal(t, "run_20250102_100000", all[1].RunID)
}

func TestFieldStoreGetMissingRun(t *testing.T) {
	store := newFieldStore(t)

	_, err := store.Get("run_20990101_000000")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestFieldSummaryCounters(t *testing.T) {
	summary := &FieldSummary{}

	assert.True(t, summary.AddDisease("septoria"))
	assert.True(t, summary.AddDisease("septoria"))
	assert.True(t, summary.AddDisease("leaf_mold"))
	assert.False(t, summary.AddDisease("not_a_category"))

	assert.Equal(t, 2, summary.DiseaseCount("septoria"))
	assert.Equal(t, 1, summary.DiseaseCount("leaf_mold"))
	assert.Equal(t, 3, summary.AffectedPlants())
}

func TestFieldSummaryHealthPercent(t *testing.T) {
	assert.Equal(t, float64(0), (&FieldSummary{}).HealthPercent())

	summary := &FieldSummary{TotalPlants: 4, HealthyPlants: 3}
	assert.InDelta(t, 75.0, summary.HealthPercent(), 1e-9)
}
