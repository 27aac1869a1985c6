package detect

import (
	"image/color"

	"github.com/Theodoscus/droneUI/internal/disease"
)

// classColors maps normalized class labels to annotation colors.
var classColors = map[string]color.RGBA{
	disease.Healthy:    {0, 200, 0, 255},
	"early_blight":     {255, 140, 0, 255},
	"late_blight":      {200, 60, 0, 255},
	"bacterial_spot":   {180, 0, 180, 255},
	"leaf_mold":        {160, 120, 40, 255},
	"leaf_miner":       {0, 160, 200, 255},
	"mosaic_virus":     {220, 200, 0, 255},
	"septoria":         {220, 0, 60, 255},
	"spider_mites":     {120, 0, 220, 255},
	"yellow_leaf_curl": {240, 220, 60, 255},
}

// defaultColor is used for classes without a dedicated color.
var defaultColor = color.RGBA{255, 255, 255, 255}

// ClassColor returns the annotation color for a class label, falling back
// to white for unrecognized classes.
func ClassColor(label string) color.RGBA {
	if c, ok := classColors[disease.Normalize(label)]; ok {
		return c
	}
	return defaultColor
}
