package analysis

import (
	"fmt"
	"image"
	"math"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/Theodoscus/droneUI/internal/datastore"
	"github.com/Theodoscus/droneUI/internal/detect"
	"github.com/Theodoscus/droneUI/internal/disease"
)

// Recorder persists detection rows to the run's log store and archives one
// photo per first-seen tracked object. The archived id set lives on the
// recorder, so dedup state is scoped to exactly one run.
type Recorder struct {
	store          *datastore.FlightStore
	photoDir       string
	flightDuration string
	archived       map[int]struct{}
	photoFailures  int
}

// NewRecorder returns a recorder writing to the given log store and photo
// archive directory.
func NewRecorder(store *datastore.FlightStore, photoDir, flightDuration string) *Recorder {
	return &Recorder{
		store:          store,
		photoDir:       photoDir,
		flightDuration: flightDuration,
		archived:       make(map[int]struct{}),
	}
}

// RecordBatch persists all detections of one processed batch as a single
// batched write and archives photos for first-seen track ids. frames[i]
// corresponds to detections[i] and carries frame index firstFrameIndex+i.
// Frames must still be unannotated; photos are cropped from them.
func (r *Recorder) RecordBatch(frames []gocv.Mat, firstFrameIndex int, detections [][]detect.Detection) error {
	var rows []datastore.FlightResult
	for i := range detections {
		frameIndex := firstFrameIndex + i
		for _, d := range detections[i] {
			rows = append(rows, datastore.FlightResult{
				Frame:          frameIndex,
				TrackID:        d.TrackID,
				Class:          d.Class,
				BBox:           d.Box.String(),
				Confidence:     math.Round(d.Confidence*10000) / 10000,
				FlightDuration: r.flightDuration,
			})
			if _, seen := r.archived[d.TrackID]; !seen {
				r.archived[d.TrackID] = struct{}{}
				r.archivePhoto(&frames[i], d)
			}
		}
	}
	return r.store.SaveBatch(rows)
}

// archivePhoto crops the detection's bounding box, clamped to the frame
// bounds, and writes it to the photo archive. A failed photo write is logged
// and never fails the run; the log row still exists, the photo is simply
// "not yet archived" from a reader's point of view.
func (r *Recorder) archivePhoto(frame *gocv.Mat, d detect.Detection) {
	rect := clampRect(d.Box.Rect(), frame.Cols(), frame.Rows())
	path := filepath.Join(r.photoDir, PhotoFileName(d.Class, d.TrackID))
	if rect.Empty() {
		r.photoFailures++
		getLogger().Warn("bounding box is outside the frame, photo not archived",
			"track_id", d.TrackID,
			"bbox", d.Box.String())
		return
	}

	region := frame.Region(rect)
	defer region.Close()
	crop := region.Clone()
	defer crop.Close()

	if ok := gocv.IMWrite(path, crop); !ok {
		r.photoFailures++
		getLogger().Warn("failed to archive object photo",
			"track_id", d.TrackID,
			"path", path)
	}
}

// ArchivedCount returns the number of track ids photographed so far.
func (r *Recorder) ArchivedCount() int {
	return len(r.archived)
}

// PhotoFailures returns the number of photo writes that failed.
func (r *Recorder) PhotoFailures() int {
	return r.photoFailures
}

// PhotoFileName names an archived photo by class at first sighting and
// track id, e.g. "septoria_ID12.jpg".
func PhotoFileName(class string, trackID int) string {
	return fmt.Sprintf("%s_ID%d.jpg", disease.Normalize(class), trackID)
}

// clampRect clips a rectangle to the frame dimensions.
func clampRect(r image.Rectangle, width, height int) image.Rectangle {
	return r.Intersect(image.Rect(0, 0, width, height))
}
