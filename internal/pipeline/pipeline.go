package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"rigal/internal/config"
	"rigal/internal/filesystem"
	"rigal/internal/gallery"
	"rigal/internal/logging"
	"rigal/internal/metrics"
	"rigal/internal/render"
	"rigal/internal/report"
	"rigal/internal/scanner"
	"rigal/internal/thumbnail"
	"rigal/internal/workers"
)

// LockPath returns the lock file guarding builds into output. It lives in
// the system temp directory, named after the canonical output path, so it is
// never published with the site.
func LockPath(output string) string {
	canonical, err := filepath.Abs(output)
	if err != nil {
		canonical = filepath.Clean(output)
	}
	if resolved, err := filepath.EvalSymlinks(canonical); err == nil {
		canonical = resolved
	}
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(canonical)))
	return filepath.Join(os.TempDir(), "rigal-"+id.String()+".lock")
}

// ErrLocked is returned when another build holds the output lock.
var ErrLocked = errors.New("another build is using the output directory")

// Options controls how a build reports progress.
type Options struct {
	// Progress shows progress bars on Stderr when it is a terminal.
	Progress bool
	Stderr   io.Writer
}

// Run builds the gallery described by cfg. The returned Summary is never
// nil and covers whatever stages completed.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*report.Summary, error) {
	b := &build{
		cfg:   cfg,
		opts:  opts,
		rep:   report.New(),
		id:    uuid.NewString(),
		start: time.Now(),
	}
	err := b.run(ctx)
	return b.summary(), err
}

type build struct {
	cfg   *config.Config
	opts  Options
	rep   *report.Report
	id    string
	start time.Time

	tree *gallery.Tree
}

func (b *build) run(ctx context.Context) error {
	cfg := b.cfg
	logging.Info("Build %s: %s -> %s", b.id, cfg.Input, cfg.Output)
	metrics.InitializeMetrics()

	if err := filesystem.EnsureDir(cfg.Output); err != nil {
		return err
	}
	lock := flock.New(LockPath(cfg.Output))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !locked {
		return ErrLocked
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.Warn("failed to release output lock: %v", err)
		}
	}()

	stageStart := time.Now()
	tree, err := scanner.Scan(scanner.Options{
		Root:    cfg.Input,
		Title:   cfg.Title,
		Exclude: []string{cfg.Output},
	}, b.rep)
	if err != nil {
		return err
	}
	b.tree = tree
	images := tree.Images()
	metrics.ScannerAlbums.Set(float64(len(tree.Albums())))
	metrics.ScannerImages.Set(float64(len(images)))
	b.stageDone("scan", stageStart)
	logging.Info("Found %d images in %d albums", len(images), len(tree.Albums()))
	if len(images) == 0 {
		b.rep.Warn(report.StageScan, cfg.Input, errors.New("no images found"))
	}

	engine, err := thumbnail.New(thumbnail.Options{
		Output:  cfg.Output,
		Sizes:   cfg.Thumbnails.Sizes,
		Quality: cfg.Thumbnails.Quality,
		Backend: cfg.Thumbnails.Backend,
	})
	if err != nil {
		return err
	}

	renderer, err := render.New(render.Options{
		Output:      cfg.Output,
		TemplateDir: cfg.TemplateDir(),
		Originals:   cfg.Originals,
	}, engine)
	if err != nil {
		return err
	}

	stageStart = time.Now()
	if err := b.thumbnails(ctx, engine, images); err != nil {
		return err
	}
	b.stageDone("thumbnails", stageStart)

	stageStart = time.Now()
	pages := render.NewBuilder(render.BuilderOptions{
		Sizes:     cfg.Thumbnails.Sizes,
		Originals: cfg.Originals.Mode,
	}).Build(tree)
	b.stageDone("context", stageStart)

	stageStart = time.Now()
	renderErr := b.render(ctx, renderer, pages)
	b.stageDone("render", stageStart)
	if err := ctx.Err(); err != nil {
		return err
	}
	if renderErr != nil && cfg.Strict {
		return fmt.Errorf("strict mode: album rendering failed: %w", renderErr)
	}

	metrics.BuildLastSuccess.SetToCurrentTime()
	return nil
}

func (b *build) thumbnails(ctx context.Context, engine *thumbnail.Engine, images []*gallery.Image) error {
	n := workers.Resolve(b.cfg.Workers, workers.ForMixed, 0)
	logging.Debug("Generating thumbnails for %d images with %d workers", len(images), n)

	bar := newProgress(b.opts, len(images), "thumbnails")
	defer finishProgress(bar)

	return workers.Each(ctx, n, images, func(_ context.Context, img *gallery.Image) error {
		defer addProgress(bar)

		res, err := engine.Process(img)
		if err != nil {
			img.Failed = true
			b.rep.AddImage(report.ImageFailed)
			b.rep.Warn(report.StageThumbnail, img.RelPath, err)
			logging.Warn("Skipping %s: %v", img.RelPath, err)
			return nil
		}

		img.Thumbnails = res.Thumbnails
		img.Width, img.Height = res.Width, res.Height
		b.rep.AddImage(res.Outcome)
		b.rep.AddBytes(res.Bytes)
		return nil
	})
}

// render returns the joined page failures, or the context error.
func (b *build) render(ctx context.Context, renderer *render.Renderer, pages []*render.Page) error {
	n := workers.Resolve(b.cfg.Workers, workers.ForIO, 0)
	logging.Debug("Rendering %d pages with %d workers", len(pages), n)

	bar := newProgress(b.opts, len(pages), "pages")
	defer finishProgress(bar)

	return workers.Each(ctx, n, pages, func(_ context.Context, page *render.Page) error {
		defer addProgress(bar)

		err := renderer.RenderPage(page, b.rep)
		b.rep.AddPage(err == nil)
		if err != nil {
			b.rep.Warn(report.StageRender, page.Album.RelPath, err)
			logging.Warn("Failed to render album %s: %v", page.Album.RelPath, err)
			return err
		}
		return nil
	})
}

func (b *build) stageDone(stage string, start time.Time) {
	d := time.Since(start)
	metrics.BuildStageDuration.WithLabelValues(stage).Set(d.Seconds())
	logging.Debug("Stage %s finished in %v", stage, d)
}

func (b *build) summary() *report.Summary {
	s := b.rep.Summary()
	s.BuildID = b.id
	s.Duration = time.Since(b.start)
	if b.tree != nil {
		s.Albums = len(b.tree.Albums())
		s.Images = len(b.tree.Images())
	}
	metrics.BuildStageDuration.WithLabelValues("total").Set(s.Duration.Seconds())

	if err := metrics.WriteTextfile(b.cfg.Metrics.Textfile); err != nil {
		logging.Warn("Failed to write metrics: %v", err)
	}
	return s
}
