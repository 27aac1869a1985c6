// Package video wraps gocv video capture and writing behind small source and
// sink interfaces so the batch processor can be driven by fakes in tests.
package video

import (
	"gocv.io/x/gocv"

	"github.com/Theodoscus/droneUI/internal/errors"
)

// Properties describes a video stream.
type Properties struct {
	Width       int
	Height      int
	FPS         float64
	TotalFrames int
}

// Source yields raw frames in order. A read returning fewer frames than
// requested, or none, signals end of stream.
type Source interface {
	Properties() Properties
	// ReadBatch reads up to n frames. The caller owns the returned mats and
	// must close them.
	ReadBatch(n int) ([]gocv.Mat, error)
	Close() error
}

// Sink accepts frames for encoding, append-only and in order.
type Sink interface {
	Write(frame *gocv.Mat) error
	Close() error
}

// FileSource reads frames from a video file through gocv.
type FileSource struct {
	capture *gocv.VideoCapture
	props   Properties
}

// OpenFile opens a video file for sequential reading.
func OpenFile(path string) (*FileSource, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, errors.Newf("unable to open video file %s: %w", path, err).
			Component("video").
			Category(errors.CategoryVideoIO).
			Build()
	}
	return &FileSource{
		capture: capture,
		props: Properties{
			Width:       int(capture.Get(gocv.VideoCaptureFrameWidth)),
			Height:      int(capture.Get(gocv.VideoCaptureFrameHeight)),
			FPS:         capture.Get(gocv.VideoCaptureFPS),
			TotalFrames: int(capture.Get(gocv.VideoCaptureFrameCount)),
		},
	}, nil
}

// Properties returns the stream properties read from the container.
func (s *FileSource) Properties() Properties {
	return s.props
}

// ReadBatch reads up to n frames from the capture.
func (s *FileSource) ReadBatch(n int) ([]gocv.Mat, error) {
	frames := make([]gocv.Mat, 0, n)
	for len(frames) < n {
		mat := gocv.NewMat()
		if ok := s.capture.Read(&mat); !ok || mat.Empty() {
			mat.Close()
			break
		}
		frames = append(frames, mat)
	}
	return frames, nil
}

// Close releases the capture.
func (s *FileSource) Close() error {
	return s.capture.Close()
}

// FileSink writes annotated frames to a video file through gocv.
type FileSink struct {
	writer *gocv.VideoWriter
	path   string
}

// CreateFile creates the output video with the given codec and the source's
// resolution and frame rate.
func CreateFile(path, codec string, props Properties) (*FileSink, error) {
	writer, err := gocv.VideoWriterFile(path, codec, props.FPS, props.Width, props.Height, true)
	if err != nil {
		return nil, errors.Newf("unable to create video file %s: %w", path, err).
			Component("video").
			Category(errors.CategoryVideoIO).
			Build()
	}
	return &FileSink{writer: writer, path: path}, nil
}

// Write appends one frame to the output video.
func (s *FileSink) Write(frame *gocv.Mat) error {
	if err := s.writer.Write(*frame); err != nil {
		return errors.Newf("unable to encode frame to %s: %w", s.path, err).
			Component("video").
			Category(errors.CategoryVideoIO).
			Build()
	}
	return nil
}

// Close releases the writer, finalizing the container.
func (s *FileSink) Close() error {
	return s.writer.Close()
}
