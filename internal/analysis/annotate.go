package analysis

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/Theodoscus/droneUI/internal/detect"
	"github.com/Theodoscus/droneUI/internal/disease"
)

// annotateFrame draws every detection's bounding box and label onto the
// frame, in place. Colors come from the per-class lookup with a white
// fallback for unrecognized classes.
func annotateFrame(frame *gocv.Mat, detections []detect.Detection) {
	for _, d := range detections {
		rect := d.Box.Rect()
		col := detect.ClassColor(d.Class)
		gocv.Rectangle(frame, rect, col, 3)

		label := fmt.Sprintf("ID %d: %s (%.2f)", d.TrackID, d.Class, d.Confidence)
		textPoint := image.Pt(rect.Min.X, rect.Min.Y-10)
		gocv.PutText(frame, label, textPoint, gocv.FontHersheySimplex, 1, col, 2)
	}
}

// affectedCount tallies the detections not labeled healthy.
func affectedCount(detections []detect.Detection) int {
	count := 0
	for _, d := range detections {
		if !disease.IsHealthy(d.Class) {
			count++
		}
	}
	return count
}
