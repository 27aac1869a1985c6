// Package run creates and addresses the per-run output layout. Every
// artifact a run produces lives under its own timestamped directory; no
// component writes outside of it while the run is active.
package run

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Theodoscus/droneUI/internal/errors"
)

const (
	// Prefix is the naming prefix of run directories under a field's runs folder.
	Prefix = "run_"
	// timestampLayout matches the original run folder naming, e.g. run_20250114_153012.
	timestampLayout = "20060102_150405"

	logStoreFile = "flight_data.db"
	videoFile    = "processed_video.mp4"
	photosDir    = "photos"
	infectedDir  = "infected_frames"
)

// Run addresses one processing execution and its artifacts.
type Run struct {
	ID        string // run directory name, doubles as the summary row key
	Dir       string
	StartedAt time.Time
}

// New creates the run directory tree under runsDir and returns the run.
// It fails with a resource error if the tree cannot be created.
func New(runsDir string, now time.Time) (*Run, error) {
	r := &Run{
		ID:        Prefix + now.Format(timestampLayout),
		StartedAt: now,
	}
	r.Dir = filepath.Join(runsDir, r.ID)

	for _, dir := range []string{r.Dir, r.PhotoDir(), r.InfectedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.New(err).
				Component("run").
				Category(errors.CategoryResource).
				Context("dir", dir).
				Build()
		}
	}
	return r, nil
}

// Open addresses an existing run directory without creating anything.
func Open(runsDir, id string) *Run {
	return &Run{ID: id, Dir: filepath.Join(runsDir, id)}
}

// LogStorePath returns the path of the run's sqlite log store.
func (r *Run) LogStorePath() string {
	return filepath.Join(r.Dir, logStoreFile)
}

// VideoPath returns the path reserved for the annotated video artifact.
func (r *Run) VideoPath() string {
	return filepath.Join(r.Dir, videoFile)
}

// PhotoDir returns the photo archive directory.
func (r *Run) PhotoDir() string {
	return filepath.Join(r.Dir, photosDir)
}

// InfectedDir returns the infected frames export directory.
func (r *Run) InfectedDir() string {
	return filepath.Join(r.Dir, infectedDir)
}

// FlightDatetime returns the run timestamp portion of the run id,
// e.g. "20250114_153012".
func (r *Run) FlightDatetime() string {
	return strings.TrimPrefix(r.ID, Prefix)
}
