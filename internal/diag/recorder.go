// Package diag persists intermediate decoder output: one PNG per pipeline
// stage, a timestamped log of stage completions and plots of the crop
// profiles. A Recorder is a card.Tap; failures are collected rather than
// returned so a broken diagnostics directory never changes the decode.
package diag

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"punchcard/internal/fsutil"
	"punchcard/internal/timeutil"
)

// TimeFormat is the timestamp layout used in log.txt.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// LogName is the name of the text log inside the diagnostics directory.
const LogName = "log.txt"

// Recorder writes diagnostics into one directory. It is not safe for
// concurrent use; the decoder calls it from a single goroutine.
type Recorder struct {
	fs    fsutil.FileSystem
	clock timeutil.Clock
	dir   string
	runID string

	logFile io.WriteCloser
	logger  *log.Logger
	started time.Time
	stages  int
	plots   bool
	errs    []error
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithFileSystem replaces the OS filesystem.
func WithFileSystem(fs fsutil.FileSystem) Option {
	return func(r *Recorder) { r.fs = fs }
}

// WithClock replaces the wall clock used for log timestamps.
func WithClock(c timeutil.Clock) Option {
	return func(r *Recorder) { r.clock = c }
}

// WithRunID fixes the run id written at the top of the log.
func WithRunID(id string) Option {
	return func(r *Recorder) { r.runID = id }
}

// WithProfilePlots enables or disables the crop profile plots.
func WithProfilePlots(enabled bool) Option {
	return func(r *Recorder) { r.plots = enabled }
}

// New creates dir if needed and opens the log. Errors here are returned
// because nothing could be recorded at all.
func New(dir string, opts ...Option) (*Recorder, error) {
	r := &Recorder{
		fs:    fsutil.OSFileSystem{},
		clock: timeutil.RealClock{},
		dir:   dir,
		plots: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.runID == "" {
		r.runID = uuid.NewString()
	}

	if err := r.fs.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create diagnostics dir: %w", err)
	}
	f, err := r.fs.Create(filepath.Join(dir, LogName))
	if err != nil {
		return nil, fmt.Errorf("create diagnostics log: %w", err)
	}
	r.logFile = f
	r.logger = log.New(f, "", 0)
	r.started = r.clock.Now()
	r.logger.Printf("%s run %s", r.started.Format(TimeFormat), r.runID)
	return r, nil
}

// RunID returns the id written at the top of the log.
func (r *Recorder) RunID() string {
	return r.runID
}

// Dir returns the diagnostics directory.
func (r *Recorder) Dir() string {
	return r.dir
}

// Image writes img as <stage>.png and logs the stage.
func (r *Recorder) Image(stage string, img image.Image) {
	if img == nil {
		return
	}
	r.stages++
	if err := r.writePNG(stage+".png", img); err != nil {
		r.fail(fmt.Errorf("stage %s: %w", stage, err))
	}
	b := img.Bounds()
	r.Logf("%s %dx%d", stage, b.Dx(), b.Dy())
}

// Profile plots the per-line means against the background threshold.
func (r *Recorder) Profile(axis string, means []float64, threshold float64) {
	if !r.plots || len(means) == 0 {
		return
	}
	if err := r.writeProfile(axis, means, threshold); err != nil {
		r.fail(fmt.Errorf("profile %s: %w", axis, err))
	}
}

// Logf appends a timestamped line to the log.
func (r *Recorder) Logf(format string, args ...any) {
	r.logger.Printf("%s %s", r.clock.Now().Format(TimeFormat), fmt.Sprintf(format, args...))
}

// Err returns every failure recorded so far, joined.
func (r *Recorder) Err() error {
	return errors.Join(r.errs...)
}

// Close finishes the log and returns any recorded failures.
func (r *Recorder) Close() error {
	r.Logf("done %d stages in %s", r.stages, r.clock.Since(r.started).Round(time.Millisecond))
	if err := r.logFile.Close(); err != nil {
		r.fail(fmt.Errorf("close log: %w", err))
	}
	return r.Err()
}

func (r *Recorder) writePNG(name string, img image.Image) error {
	f, err := r.fs.Create(filepath.Join(r.dir, name))
	if err != nil {
		return err
	}
	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (r *Recorder) fail(err error) {
	log.Printf("diag: %v", err)
	r.errs = append(r.errs, err)
}
