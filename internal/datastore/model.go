// Package datastore owns the two sqlite stores of the system: the append-only
// per-run flight log and the cross-run field summary.
package datastore

import "github.com/Theodoscus/droneUI/internal/disease"

// FlightResult is one detection row in a run's log store: one tracked object
// observed in one frame. Rows are appended during the run and never mutated.
type FlightResult struct {
	ID             uint   `gorm:"primaryKey"`
	Frame          int    `gorm:"index:idx_flight_results_frame"`
	TrackID        int    `gorm:"index:idx_flight_results_track"`
	Class          string
	BBox           string  // "x1,y1,x2,y2" pixel coordinates, two decimals
	Confidence     float64 // rounded to four decimals
	FlightDuration string  // constant across a run, stored on every row
}

// TableName keeps the table name of the original schema.
func (FlightResult) TableName() string {
	return "flight_results"
}

// FieldSummary is one aggregated row per run in the field's summary store.
// The row is upserted by the aggregator, so revisiting a run is idempotent.
type FieldSummary struct {
	RunID          string `gorm:"primaryKey;column:run_id"`
	FlightDatetime string
	FlightDuration string
	TotalPlants    int
	HealthyPlants  int
	EarlyBlight    int `gorm:"column:early_blight"`
	LateBlight     int `gorm:"column:late_blight"`
	BacterialSpot  int `gorm:"column:bacterial_spot"`
	LeafMold       int `gorm:"column:leaf_mold"`
	LeafMiner      int `gorm:"column:leaf_miner"`
	MosaicVirus    int `gorm:"column:mosaic_virus"`
	Septoria       int `gorm:"column:septoria"`
	SpiderMites    int `gorm:"column:spider_mites"`
	YellowLeafCurl int `gorm:"column:yellow_leaf_curl"`
}

// TableName keeps the table name of the original schema.
func (FieldSummary) TableName() string {
	return "field_summary"
}

// AddDisease increments the counter for the given normalized category key.
// Unrecognized categories are ignored and reported as false; they still count
// toward TotalPlants, just not toward any disease bucket.
func (s *FieldSummary) AddDisease(category string) bool {
	switch category {
	case "early_blight":
		s.EarlyBlight++
	case "late_blight":
		s.LateBlight++
	case "bacterial_spot":
		s.BacterialSpot++
	case "leaf_mold":
		s.LeafMold++
	case "leaf_miner":
		s.LeafMiner++
	case "mosaic_virus":
		s.MosaicVirus++
	case "septoria":
		s.Septoria++
	case "spider_mites":
		s.SpiderMites++
	case "yellow_leaf_curl":
		s.YellowLeafCurl++
	default:
		return false
	}
	return true
}

// DiseaseCount returns the counter for the given normalized category key.
func (s *FieldSummary) DiseaseCount(category string) int {
	switch category {
	case "early_blight":
		return s.EarlyBlight
	case "late_blight":
		return s.LateBlight
	case "bacterial_spot":
		return s.BacterialSpot
	case "leaf_mold":
		return s.LeafMold
	case "leaf_miner":
		return s.LeafMiner
	case "mosaic_virus":
		return s.MosaicVirus
	case "septoria":
		return s.Septoria
	case "spider_mites":
		return s.SpiderMites
	case "yellow_leaf_curl":
		return s.YellowLeafCurl
	default:
		return 0
	}
}

// AffectedPlants returns the sum of all disease counters.
func (s *FieldSummary) AffectedPlants() int {
	total := 0
	for _, category := range disease.Categories {
		total += s.DiseaseCount(category)
	}
	return total
}

// HealthPercent returns the share of healthy plants in percent, used by the
// field progress report. A run with no plants reports 0.
func (s *FieldSummary) HealthPercent() float64 {
	if s.TotalPlants == 0 {
		return 0
	}
	return float64(s.HealthyPlants) / float64(s.TotalPlants) * 100
}
