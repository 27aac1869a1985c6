package detect

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoxString(t *testing.T) {
	b := Box{X1: 1.5, Y1: 2, X2: 10.333, Y2: 20.005}
	assert.Equal(t, "1.50,2.00,10.33,20.01", b.String())
}

func TestBoxRect(t *testing.T) {
	b := Box{X1: 1.9, Y1: 2.1, X2: 10.7, Y2: 20.4}
	assert.Equal(t, image.Rect(1, 2, 10, 20), b.Rect())
}

func TestBoxIoU(t *testing.T) {
	a := Box{X1: 0, Y1: 0, X2: 10, Y2: 10}

	assert.InDelta(t, 1.0, a.IoU(a), 1e-9, "identical boxes")
	assert.Equal(t, 0.0, a.IoU(Box{X1: 20, Y1: 20, X2: 30, Y2: 30}), "disjoint boxes")
	assert.Equal(t, 0.0, a.IoU(Box{X1: 10, Y1: 0, X2: 20, Y2: 10}), "touching edges do not intersect")

	// half overlap: intersection 50, union 150
	b := Box{X1: 5, Y1: 0, X2: 15, Y2: 10}
	assert.InDelta(t, 50.0/150.0, a.IoU(b), 1e-9)
	assert.InDelta(t, a.IoU(b), b.IoU(a), 1e-9, "IoU is symmetric")
}

func TestClassColor(t *testing.T) {
	assert.Equal(t, classColors["septoria"], ClassColor("Septoria"))
	assert.Equal(t, classColors["early_blight"], ClassColor("Early Blight"))
	assert.Equal(t, defaultColor, ClassColor("something else"))
}

func dets(boxes ...Box) []Detection {
	out := make([]Detection, len(boxes))
	for i, b := range boxes {
		out[i] = Detection{Class: "Healthy", Confidence: 0.9, Box: b}
	}
	return out
}

func trackIDs(detections []Detection) []int {
	ids := make([]int, len(detections))
	for i := range detections {
		ids[i] = detections[i].TrackID
	}
	return ids
}

func TestAssignTracksStableAcrossFrames(t *testing.T) {
	yt := &YOLOTracker{matchIoU: 0.3, maxAge: 2}

	first := yt.assignTracks(dets(
		Box{X1: 0, Y1: 0, X2: 10, Y2: 10},
		Box{X1: 100, Y1: 100, X2: 120, Y2: 120},
	))
	assert.Equal(t, []int{1, 2}, trackIDs(first))

	// both objects drift slightly, ids must hold
	second := yt.assignTracks(dets(
		Box{X1: 2, Y1: 1, X2: 12, Y2: 11},
		Box{X1: 102, Y1: 101, X2: 122, Y2: 121},
	))
	assert.Equal(t, []int{1, 2}, trackIDs(second))
}

func TestAssignTracksOpensNewTrackBelowMatchThreshold(t *testing.T) {
	yt := &YOLOTracker{matchIoU: 0.3, maxAge: 2}

	yt.assignTracks(dets(Box{X1: 0, Y1: 0, X2: 10, Y2: 10}))

	// far away detection must not inherit track 1
	out := yt.assignTracks(dets(Box{X1: 50, Y1: 50, X2: 60, Y2: 60}))
	assert.Equal(t, []int{2}, trackIDs(out))
}

func TestAssignTracksRetiresAfterMaxAge(t *testing.T) {
	yt := &YOLOTracker{matchIoU: 0.3, maxAge: 1}
	box := Box{X1: 0, Y1: 0, X2: 10, Y2: 10}

	yt.assignTracks(dets(box))
	yt.assignTracks(nil) // age 1, still alive
	yt.assignTracks(nil) // age 2, retired

	out := yt.assignTracks(dets(box))
	assert.Equal(t, []int{2}, trackIDs(out), "a retired id is never reused")
}

func TestAssignTracksSurvivesShortGap(t *testing.T) {
	yt := &YOLOTracker{matchIoU: 0.3, maxAge: 2}
	box := Box{X1: 0, Y1: 0, X2: 10, Y2: 10}

	yt.assignTracks(dets(box))
	yt.assignTracks(nil) // missed one frame

	out := yt.assignTracks(dets(box))
	assert.Equal(t, []int{1}, trackIDs(out))
}

func TestAssignTracksOneDetectionPerTrack(t *testing.T) {
	yt := &YOLOTracker{matchIoU: 0.3, maxAge: 2}
	box := Box{X1: 0, Y1: 0, X2: 10, Y2: 10}

	yt.assignTracks(dets(box))

	// two overlapping detections cannot share the same track
	out := yt.assignTracks(dets(box, Box{X1: 1, Y1: 1, X2: 11, Y2: 11}))
	ids := trackIDs(out)
	assert.NotEqual(t, ids[0], ids[1])
	assert.Contains(t, ids, 1)
}
