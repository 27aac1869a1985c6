package disease

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Early Blight", "early_blight"},
		{"early_blight", "early_blight"},
		{"  Septoria ", "septoria"},
		{"YELLOW LEAF CURL", "yellow_leaf_curl"},
		{"Healthy", "healthy"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestIsHealthy(t *testing.T) {
	assert.True(t, IsHealthy("Healthy"))
	assert.True(t, IsHealthy("healthy"))
	assert.False(t, IsHealthy("Septoria"))
	assert.False(t, IsHealthy(""))
}

func TestIsKnown(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, IsKnown(c), "category %q must be known", c)
	}
	assert.True(t, IsKnown("Spider Mites"))
	assert.False(t, IsKnown("healthy"), "healthy is not a disease category")
	assert.False(t, IsKnown("powdery_mildew"))
}
