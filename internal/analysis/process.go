package analysis

import (
	"context"
	"time"

	"gocv.io/x/gocv"

	"github.com/Theodoscus/droneUI/internal/conf"
	"github.com/Theodoscus/droneUI/internal/datastore"
	"github.com/Theodoscus/droneUI/internal/detect"
	"github.com/Theodoscus/droneUI/internal/errors"
	"github.com/Theodoscus/droneUI/internal/run"
	"github.com/Theodoscus/droneUI/internal/video"
)

// RunStats summarizes a completed run.
type RunStats struct {
	Run              *run.Run
	FramesProcessed  int
	DetectionRows    int
	PhotosArchived   int
	InfectedExported int
	Elapsed          time.Duration
}

// Pipeline is the frame batch processor. It drives the
// decode → detect → persist → annotate → encode loop over fixed-size batches.
// Batches are strictly sequential: the detector holds cross-batch tracking
// state that is only valid under ordered, non-overlapping calls.
type Pipeline struct {
	BatchSize      int
	TopInfected    int
	FlightDuration string
}

// Process consumes the source until end of stream. Any failure aborts the
// run and leaves the artifacts written so far in place; the run directory
// stays inspectable, restart means processing the video into a new run.
func (p *Pipeline) Process(ctx context.Context, source video.Source, sink video.Sink, tracker detect.Tracker, store *datastore.FlightStore, r *run.Run) (*RunStats, error) {
	recorder := NewRecorder(store, r.PhotoDir(), p.FlightDuration)
	selector := NewInfectedSelector(p.TopInfected)
	defer selector.Close()
	progress := NewProgressEstimator()

	stats := &RunStats{Run: r}
	totalFrames := source.Properties().TotalFrames
	start := time.Now()
	frameIndex := 0
	batch := 0

	for {
		batchStart := time.Now()
		frames, err := source.ReadBatch(p.BatchSize)
		if err != nil {
			closeFrames(frames)
			return nil, errors.New(err).
				Component("analysis").
				Category(errors.CategoryVideoIO).
				Context("batch", batch).
				Build()
		}
		if len(frames) == 0 {
			break
		}
		batch++

		detections, err := tracker.DetectAndTrack(ctx, frames)
		if err != nil {
			closeFrames(frames)
			return nil, errors.New(err).
				Component("analysis").
				Category(errors.CategoryDetection).
				Context("batch", batch).
				Build()
		}
		if len(detections) != len(frames) {
			closeFrames(frames)
			return nil, errors.Newf("detector returned %d result lists for %d frames", len(detections), len(frames)).
				Component("analysis").
				Category(errors.CategoryDetection).
				Context("batch", batch).
				Build()
		}

		// persist rows and photos before the frames are drawn on
		if err := recorder.RecordBatch(frames, frameIndex, detections); err != nil {
			closeFrames(frames)
			return nil, err
		}

		for i := range frames {
			annotateFrame(&frames[i], detections[i])
			selector.Consider(frameIndex+i, affectedCount(detections[i]), &frames[i])
			if err := sink.Write(&frames[i]); err != nil {
				closeFrames(frames)
				return nil, err
			}
			stats.DetectionRows += len(detections[i])
		}
		closeFrames(frames)
		frameIndex += len(frames)

		progress.Observe(len(frames), time.Since(batchStart))
		if eta, ok := progress.ETA(totalFrames - frameIndex); ok {
			getLogger().Info("batch processed",
				"batch", batch,
				"frames", frameIndex,
				"total", totalFrames,
				"eta", FormatETA(eta))
		}
	}

	stats.FramesProcessed = frameIndex
	stats.PhotosArchived = recorder.ArchivedCount()
	stats.InfectedExported = selector.Export(r.InfectedDir())
	stats.Elapsed = time.Since(start)

	getLogger().Info("run completed",
		"run", r.ID,
		"frames", stats.FramesProcessed,
		"rows", stats.DetectionRows,
		"photos", stats.PhotosArchived,
		"infected_stills", stats.InfectedExported,
		"elapsed", stats.Elapsed.Round(time.Millisecond))

	return stats, nil
}

// ProcessVideo runs the full pipeline for settings.Input: it creates the run
// directory under the field, opens the video source and the annotated video
// sink, loads the detector and processes every frame batch.
func ProcessVideo(ctx context.Context, settings *conf.Settings) (*RunStats, error) {
	source, err := video.OpenFile(settings.Input.Path)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	tracker, err := detect.NewYOLOTracker(settings)
	if err != nil {
		return nil, err
	}
	defer tracker.Close()

	r, err := run.New(settings.RunsDir(settings.Input.Field), time.Now())
	if err != nil {
		return nil, err
	}

	store, err := datastore.OpenFlightStore(r.LogStorePath())
	if err != nil {
		return nil, err
	}
	defer store.Close()

	sink, err := video.CreateFile(r.VideoPath(), settings.Processing.VideoCodec, source.Properties())
	if err != nil {
		return nil, err
	}
	defer sink.Close()

	pipeline := &Pipeline{
		BatchSize:      settings.Processing.BatchSize,
		TopInfected:    settings.Processing.TopInfected,
		FlightDuration: settings.Processing.FlightDuration,
	}
	return pipeline.Process(ctx, source, sink, tracker, store, r)
}

// closeFrames releases a batch of frames.
func closeFrames(frames []gocv.Mat) {
	for i := range frames {
		frames[i].Close()
	}
}
