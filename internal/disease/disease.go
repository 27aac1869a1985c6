// Package disease defines the fixed set of plant condition categories the
// detection model is trained on and the label normalization used across the
// log store, photo archive and field summary.
package disease

import "strings"

// Healthy is the distinguished category for plants with no detected disease.
const Healthy = "healthy"

// Categories is the fixed set of disease categories tracked per run in the
// field summary store. Each entry doubles as a column name in the
// field_summary table, so the order and spelling are part of the schema.
var Categories = []string{
	"early_blight",
	"late_blight",
	"bacterial_spot",
	"leaf_mold",
	"leaf_miner",
	"mosaic_virus",
	"septoria",
	"spider_mites",
	"yellow_leaf_curl",
}

// Normalize converts a raw model class label to the category key convention:
// lower case with underscores instead of spaces. "Early Blight" and
// "early_blight" normalize to the same key.
func Normalize(label string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(label)), " ", "_")
}

// IsHealthy reports whether the given class label denotes a healthy plant.
func IsHealthy(label string) bool {
	return Normalize(label) == Healthy
}

// IsKnown reports whether the normalized label is one of the fixed disease
// categories. Healthy is not a disease category.
func IsKnown(label string) bool {
	key := Normalize(label)
	for _, c := range Categories {
		if key == c {
			return true
		}
	}
	return false
}
