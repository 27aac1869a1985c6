package analysis

import (
	"fmt"
	"path/filepath"
	"sort"

	"gocv.io/x/gocv"
)

// infectedFrame is one retained candidate for the infected frames export.
type infectedFrame struct {
	index    int
	affected int
	frame    gocv.Mat
}

// InfectedSelector retains the frames with the highest affected counts seen
// during a run and exports them as stills once the run completes. At most
// limit frames are held at any time; evicted candidates are closed
// immediately so raw pixel buffers never outlive their usefulness.
type InfectedSelector struct {
	limit  int
	frames []infectedFrame
}

// NewInfectedSelector returns a selector exporting at most limit stills.
func NewInfectedSelector(limit int) *InfectedSelector {
	return &InfectedSelector{limit: limit}
}

// Consider offers a frame with its affected count. Frames with no affected
// detections are never retained. The frame is cloned, the caller keeps
// ownership of the original.
func (s *InfectedSelector) Consider(frameIndex, affected int, frame *gocv.Mat) {
	if affected <= 0 || s.limit <= 0 {
		return
	}
	if len(s.frames) == s.limit && affected <= s.frames[len(s.frames)-1].affected {
		// cannot displace the current floor, skip the clone
		return
	}

	s.frames = append(s.frames, infectedFrame{
		index:    frameIndex,
		affected: affected,
		frame:    frame.Clone(),
	})
	// affected descending; insertion order keeps equal counts in ascending
	// frame order because frames arrive in order
	sort.SliceStable(s.frames, func(i, j int) bool {
		return s.frames[i].affected > s.frames[j].affected
	})
	if len(s.frames) > s.limit {
		s.frames[len(s.frames)-1].frame.Close()
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Export writes the retained frames into dir, named by frame index and
// affected count, and releases them. It returns the number of stills
// written. An empty selection writes nothing and is not an error.
func (s *InfectedSelector) Export(dir string) int {
	exported := 0
	for i := range s.frames {
		name := fmt.Sprintf("frame%d_affected%d.jpg", s.frames[i].index, s.frames[i].affected)
		path := filepath.Join(dir, name)
		if ok := gocv.IMWrite(path, s.frames[i].frame); !ok {
			getLogger().Warn("failed to export infected frame still",
				"path", path,
				"frame", s.frames[i].index)
		} else {
			exported++
		}
		s.frames[i].frame.Close()
	}
	s.frames = nil
	return exported
}

// Close releases any retained frames without exporting them.
func (s *InfectedSelector) Close() {
	for i := range s.frames {
		s.frames[i].frame.Close()
	}
	s.frames = nil
}
