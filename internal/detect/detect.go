// Package detect defines the detection-and-tracking capability consumed by
// the frame batch processor, and provides a gocv DNN backed implementation.
package detect

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// Box is an axis aligned bounding box in pixel coordinates.
type Box struct {
	X1, Y1, X2, Y2 float64
}

// Rect converts the box to an image.Rectangle, truncating to integers.
func (b Box) Rect() image.Rectangle {
	return image.Rect(int(b.X1), int(b.Y1), int(b.X2), int(b.Y2))
}

// String renders the box in the log store convention: "x1,y1,x2,y2"
// with two decimals.
func (b Box) String() string {
	return fmt.Sprintf("%.2f,%.2f,%.2f,%.2f", b.X1, b.Y1, b.X2, b.Y2)
}

// IoU computes the intersection over union of two boxes.
func (b Box) IoU(o Box) float64 {
	x1 := max(b.X1, o.X1)
	y1 := max(b.Y1, o.Y1)
	x2 := min(b.X2, o.X2)
	y2 := min(b.Y2, o.Y2)
	if x2 <= x1 || y2 <= y1 {
		return 0
	}
	inter := (x2 - x1) * (y2 - y1)
	area := (b.X2-b.X1)*(b.Y2-b.Y1) + (o.X2-o.X1)*(o.Y2-o.Y1) - inter
	if area <= 0 {
		return 0
	}
	return inter / area
}

// Detection is one observation of a tracked object in one frame.
type Detection struct {
	TrackID    int
	Class      string
	Box        Box
	Confidence float64
}

// Tracker is the external detection-and-tracking capability. Implementations
// keep tracking state across calls, so DetectAndTrack must be invoked for
// every batch of a run, in strict order and without overlapping calls.
// Track ids are stable for the lifetime of the tracker.
type Tracker interface {
	// DetectAndTrack runs detection on a batch of frames and returns one
	// detection list per input frame, in input order.
	DetectAndTrack(ctx context.Context, batch []gocv.Mat) ([][]Detection, error)
	Close() error
}
