// Package report collects recoverable build problems and per-item outcome
// counts. A single Report is created per build and handed to every stage;
// all methods are safe for concurrent use by pool workers.
package report

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Stage identifies the pipeline stage that recorded a warning.
type Stage string

const (
	StageScan      Stage = "scan"
	StageMetadata  Stage = "metadata"
	StageThumbnail Stage = "thumbnail"
	StageContext   Stage = "context"
	StageRender    Stage = "render"
	StageOriginals Stage = "originals"
)

var stageOrder = map[Stage]int{
	StageScan:      0,
	StageMetadata:  1,
	StageThumbnail: 2,
	StageContext:   3,
	StageRender:    4,
	StageOriginals: 5,
}

// Warning is one recoverable problem.
type Warning struct {
	Stage Stage
	Path  string
	Err   error
}

func (w Warning) String() string {
	if w.Path == "" {
		return fmt.Sprintf("[%s] %v", w.Stage, w.Err)
	}
	return fmt.Sprintf("[%s] %s: %v", w.Stage, w.Path, w.Err)
}

// ImageOutcome is the result of the thumbnail stage for one image.
type ImageOutcome int

const (
	// ImageGenerated means at least one thumbnail was written.
	ImageGenerated ImageOutcome = iota
	// ImageSkipped means every thumbnail was already up to date.
	ImageSkipped
	// ImageFailed means the image could not be thumbnailed.
	ImageFailed
)

func (o ImageOutcome) String() string {
	switch o {
	case ImageGenerated:
		return "generated"
	case ImageSkipped:
		return "skipped"
	case ImageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Report is the shared accumulator for one build.
type Report struct {
	mu       sync.Mutex
	warnings []Warning

	generated atomic.Int64
	skipped   atomic.Int64
	failed    atomic.Int64

	pagesRendered atomic.Int64
	pagesFailed   atomic.Int64

	bytesWritten atomic.Int64
}

// New returns an empty Report.
func New() *Report {
	return &Report{}
}

// Warn records a recoverable problem. A nil err is ignored.
func (r *Report) Warn(stage Stage, path string, err error) {
	if err == nil {
		return
	}
	r.mu.Lock()
	r.warnings = append(r.warnings, Warning{Stage: stage, Path: path, Err: err})
	r.mu.Unlock()
}

// Warnings returns a copy of the recorded warnings ordered by stage and
// then path, so output does not depend on worker scheduling.
func (r *Report) Warnings() []Warning {
	r.mu.Lock()
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	r.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Stage != out[j].Stage {
			return stageOrder[out[i].Stage] < stageOrder[out[j].Stage]
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// AddImage counts the thumbnail outcome of one image.
func (r *Report) AddImage(o ImageOutcome) {
	switch o {
	case ImageGenerated:
		r.generated.Add(1)
	case ImageSkipped:
		r.skipped.Add(1)
	case ImageFailed:
		r.failed.Add(1)
	}
}

// AddPage counts one album page render attempt.
func (r *Report) AddPage(ok bool) {
	if ok {
		r.pagesRendered.Add(1)
	} else {
		r.pagesFailed.Add(1)
	}
}

// AddBytes records bytes written to the output tree.
func (r *Report) AddBytes(n int64) {
	r.bytesWritten.Add(n)
}

// Summary is a point-in-time snapshot of a build.
type Summary struct {
	BuildID  string
	Duration time.Duration

	Albums int
	Images int

	ImagesGenerated int
	ImagesSkipped   int
	ImagesFailed    int

	PagesRendered int
	PagesFailed   int

	BytesWritten int64
	Warnings     []Warning
}

// ImagesSucceeded is the number of images that have usable thumbnails.
func (s *Summary) ImagesSucceeded() int {
	return s.ImagesGenerated + s.ImagesSkipped
}

// Summary snapshots the counters. Albums, Images, BuildID and Duration are
// owned by the orchestrator and left zero.
func (r *Report) Summary() *Summary {
	return &Summary{
		ImagesGenerated: int(r.generated.Load()),
		ImagesSkipped:   int(r.skipped.Load()),
		ImagesFailed:    int(r.failed.Load()),
		PagesRendered:   int(r.pagesRendered.Load()),
		PagesFailed:     int(r.pagesFailed.Load()),
		BytesWritten:    r.bytesWritten.Load(),
		Warnings:        r.Warnings(),
	}
}
