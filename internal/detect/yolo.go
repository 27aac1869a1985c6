package detect

import (
	"context"
	"image"
	"os"
	"strings"

	"gocv.io/x/gocv"

	"github.com/Theodoscus/droneUI/internal/conf"
	"github.com/Theodoscus/droneUI/internal/errors"
)

// YOLOTracker implements Tracker with a gocv DNN YOLO network and a greedy
// IoU association stage that assigns stable per-run track ids.
type YOLOTracker struct {
	net        gocv.Net
	classNames []string
	inputSize  int
	confidence float32
	nmsIoU     float32

	matchIoU float64
	maxAge   int
	nextID   int
	tracks   []track
}

// track is one live tracked object between batches.
type track struct {
	id  int
	box Box
	age int // frames since last match
}

// NewYOLOTracker loads the ONNX model and class labels from the detector
// settings and returns a ready tracker.
func NewYOLOTracker(settings *conf.Settings) (*YOLOTracker, error) {
	namesBytes, err := os.ReadFile(settings.Detector.ClassesPath)
	if err != nil {
		return nil, errors.New(err).
			Component("detect").
			Category(errors.CategoryResource).
			Context("classes_path", settings.Detector.ClassesPath).
			Build()
	}
	var classNames []string
	for _, line := range strings.Split(string(namesBytes), "\n") {
		if name := strings.TrimSpace(line); name != "" {
			classNames = append(classNames, name)
		}
	}
	if len(classNames) == 0 {
		return nil, errors.Newf("class label file %s is empty", settings.Detector.ClassesPath).
			Component("detect").
			Category(errors.CategoryResource).
			Build()
	}

	net := gocv.ReadNetFromONNX(settings.Detector.ModelPath)
	if net.Empty() {
		return nil, errors.Newf("could not load detection model from %s", settings.Detector.ModelPath).
			Component("detect").
			Category(errors.CategoryResource).
			Build()
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	return &YOLOTracker{
		net:        net,
		classNames: classNames,
		inputSize:  settings.Detector.InputSize,
		confidence: float32(settings.Detector.Confidence),
		nmsIoU:     float32(settings.Detector.NMSThreshold),
		matchIoU:   settings.Detector.TrackIoUMatch,
		maxAge:     settings.Detector.TrackMaxAge,
	}, nil
}

// DetectAndTrack runs the network on every frame of the batch and associates
// detections with live tracks. Frames are processed in input order; the
// association state carries over between calls.
func (yt *YOLOTracker) DetectAndTrack(ctx context.Context, batch []gocv.Mat) ([][]Detection, error) {
	results := make([][]Detection, 0, len(batch))
	for i := range batch {
		if err := ctx.Err(); err != nil {
			return nil, errors.New(err).
				Component("detect").
				Category(errors.CategoryDetection).
				Build()
		}
		detections, err := yt.detectFrame(&batch[i])
		if err != nil {
			return nil, err
		}
		results = append(results, yt.assignTracks(detections))
	}
	return results, nil
}

// detectFrame runs a single forward pass and returns unassociated detections.
func (yt *YOLOTracker) detectFrame(frame *gocv.Mat) ([]Detection, error) {
	if frame.Empty() {
		return nil, errors.Newf("detector received an empty frame").
			Component("detect").
			Category(errors.CategoryDetection).
			Build()
	}

	size := float32(yt.inputSize)
	blob := gocv.BlobFromImage(*frame, 1.0/255.0,
		image.Pt(yt.inputSize, yt.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	yt.net.SetInput(blob, "")
	output := yt.net.Forward("")
	defer output.Close()

	scaleX := float32(frame.Cols()) / size
	scaleY := float32(frame.Rows()) / size

	var boxes []image.Rectangle
	var scores []float32
	var classIDs []int

	for i := 0; i < output.Rows(); i++ {
		row := output.RowRange(i, i+1)
		data := row.Clone()
		classScores := data.ColRange(5, data.Cols())
		_, maxVal, _, maxLoc := gocv.MinMaxLoc(classScores)
		objectness := data.GetFloatAt(0, 4)
		confidence := objectness * maxVal

		if confidence >= yt.confidence && maxLoc.X < len(yt.classNames) {
			cx := data.GetFloatAt(0, 0) * scaleX
			cy := data.GetFloatAt(0, 1) * scaleY
			w := data.GetFloatAt(0, 2) * scaleX
			h := data.GetFloatAt(0, 3) * scaleY
			left := int(cx - w/2)
			top := int(cy - h/2)
			boxes = append(boxes, image.Rect(left, top, left+int(w), top+int(h)))
			scores = append(scores, confidence)
			classIDs = append(classIDs, maxLoc.X)
		}

		classScores.Close()
		data.Close()
		row.Close()
	}

	if len(boxes) == 0 {
		return nil, nil
	}

	indices := gocv.NMSBoxes(boxes, scores, yt.confidence, yt.nmsIoU)
	detections := make([]Detection, 0, len(indices))
	for _, idx := range indices {
		r := boxes[idx]
		detections = append(detections, Detection{
			Class:      yt.classNames[classIDs[idx]],
			Confidence: float64(scores[idx]),
			Box: Box{
				X1: float64(r.Min.X), Y1: float64(r.Min.Y),
				X2: float64(r.Max.X), Y2: float64(r.Max.Y),
			},
		})
	}
	return detections, nil
}

// assignTracks greedily matches detections against live tracks by IoU.
// Unmatched detections open new tracks; tracks unseen for more than maxAge
// frames are retired. Ids are never reused within a run.
func (yt *YOLOTracker) assignTracks(detections []Detection) []Detection {
	matched := make(map[int]bool, len(yt.tracks))

	for d := range detections {
		bestIdx := -1
		bestIoU := yt.matchIoU
		for t := range yt.tracks {
			if matched[t] {
				continue
			}
			if iou := detections[d].Box.IoU(yt.tracks[t].box); iou > bestIoU {
				bestIoU = iou
				bestIdx = t
			}
		}
		if bestIdx >= 0 {
			matched[bestIdx] = true
			yt.tracks[bestIdx].box = detections[d].Box
			yt.tracks[bestIdx].age = 0
			detections[d].TrackID = yt.tracks[bestIdx].id
		} else {
			yt.nextID++
			yt.tracks = append(yt.tracks, track{id: yt.nextID, box: detections[d].Box})
			matched[len(yt.tracks)-1] = true
			detections[d].TrackID = yt.nextID
		}
	}

	alive := yt.tracks[:0]
	for t := range yt.tracks {
		if !matched[t] {
			yt.tracks[t].age++
		}
		if yt.tracks[t].age <= yt.maxAge {
			alive = append(alive, yt.tracks[t])
		}
	}
	yt.tracks = alive

	return detections
}

// Close releases the network.
func (yt *YOLOTracker) Close() error {
	return yt.net.Close()
}
