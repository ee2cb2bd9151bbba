package thumbnail

import (
	"fmt"
	"image"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"github.com/disintegration/imaging"

	"rigal/internal/filesystem"
	"rigal/internal/gallery"
	"rigal/internal/logging"
	"rigal/internal/mediatypes"
	"rigal/internal/metrics"
	"rigal/internal/report"
)

// DirName is the per-album directory holding thumbnails.
const DirName = "thumbnails"

// Backend names accepted by Options.Backend.
const (
	BackendImaging = "imaging"
	BackendVips    = "vips"
)

// DecodeError reports a source image that could not be decoded.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Options configures an Engine.
type Options struct {
	// Output is the site root.
	Output string
	// Sizes are the target lengths of the longer edge.
	Sizes []int
	// Quality is the JPEG quality, 1-100.
	Quality int
	// Backend is BackendImaging or BackendVips.
	Backend string
}

// Result describes the thumbnails of one image.
type Result struct {
	// Thumbnails maps size to output-rooted, slash-separated path.
	Thumbnails map[int]string
	// Width and Height are the source dimensions as displayed, with EXIF
	// orientation applied.
	Width  int
	Height int
	Outcome    report.ImageOutcome
	Bytes      int64
}

// Engine produces thumbnails. It holds no per-image state and may be used
// by many workers at once.
type Engine struct {
	opts   Options
	decode func(path string, target int) (image.Image, error)
}

// New creates an Engine. Selecting the vips backend starts libvips, which
// stays up until ShutdownVips is called at process exit.
func New(opts Options) (*Engine, error) {
	if len(opts.Sizes) == 0 {
		return nil, fmt.Errorf("no thumbnail sizes configured")
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 85
	}

	e := &Engine{opts: opts}
	switch opts.Backend {
	case "", BackendImaging:
		e.decode = func(path string, _ int) (image.Image, error) {
			return LoadImageConstrained(path, MaxImageDimension, MaxImagePixels)
		}
	case BackendVips:
		if err := InitVips(); err != nil {
			return nil, fmt.Errorf("init vips: %w", err)
		}
		e.decode = LoadImageWithVips
	default:
		return nil, fmt.Errorf("unknown thumbnail backend %q", opts.Backend)
	}
	return e, nil
}

// Sizes returns the configured sizes in configuration order.
func (e *Engine) Sizes() []int {
	return slices.Clone(e.opts.Sizes)
}

// RelativeDest returns the output-rooted, slash-separated thumbnail path
// for img at size. It depends only on the image's relative path and size.
func RelativeDest(img *gallery.Image, size int) string {
	return gallery.Join(img.AlbumPath, DirName, strconv.Itoa(size), mediatypes.ThumbnailName(img.Name))
}

// DestPath returns the absolute thumbnail path for img at size.
func (e *Engine) DestPath(img *gallery.Image, size int) string {
	return filepath.Join(e.opts.Output, filepath.FromSlash(RelativeDest(img, size)))
}

// Process makes sure every configured thumbnail of img exists and is not
// older than the source. The source is decoded at most once.
func (e *Engine) Process(img *gallery.Image) (*Result, error) {
	result := &Result{
		Thumbnails: make(map[int]string, len(e.opts.Sizes)),
		Outcome:    report.ImageSkipped,
	}

	var pending []int
	for _, size := range e.opts.Sizes {
		result.Thumbnails[size] = RelativeDest(img, size)
		fresh, err := filesystem.UpToDate(img.ModTime, e.DestPath(img, size))
		if err != nil {
			logging.Debug("Cannot stat thumbnail for %s at %d: %v", img.RelPath, size, err)
		}
		if !fresh {
			pending = append(pending, size)
		}
	}

	if dims, err := GetImageDimensions(img.SourcePath); err == nil {
		result.Width, result.Height = dims.Width, dims.Height
	}

	if len(pending) == 0 {
		logging.Debug("Thumbnails up to date: %s", img.RelPath)
		e.orient(img, result)
		metrics.ThumbnailImagesTotal.WithLabelValues(report.ImageSkipped.String()).Inc()
		return result, nil
	}

	src, err := e.load(img.SourcePath, slices.Max(pending))
	if err != nil {
		metrics.ThumbnailImagesTotal.WithLabelValues(report.ImageFailed.String()).Inc()
		return nil, err
	}
	if result.Width == 0 || result.Height == 0 {
		b := src.Bounds()
		result.Width, result.Height = b.Dx(), b.Dy()
	}

	for _, size := range pending {
		n, err := e.writeResized(src, size, e.DestPath(img, size))
		if err != nil {
			metrics.ThumbnailImagesTotal.WithLabelValues(report.ImageFailed.String()).Inc()
			return nil, err
		}
		result.Bytes += n
	}

	e.orient(img, result)
	logging.Debug("Generated %d thumbnail(s) for %s", len(pending), img.RelPath)
	result.Outcome = report.ImageGenerated
	metrics.ThumbnailImagesTotal.WithLabelValues(report.ImageGenerated.String()).Inc()
	return result, nil
}

// orient swaps the stored width and height when the thumbnails, which have
// EXIF orientation applied, are laid out the other way round. Only the
// header of the largest thumbnail is read.
func (e *Engine) orient(img *gallery.Image, result *Result) {
	if result.Width == result.Height {
		return
	}
	thumb, err := GetImageDimensions(e.DestPath(img, slices.Max(e.opts.Sizes)))
	if err != nil {
		logging.Debug("Cannot read thumbnail header for %s: %v", img.RelPath, err)
		return
	}
	if thumb.Width == thumb.Height {
		return
	}
	if (thumb.Width > thumb.Height) != (result.Width > result.Height) {
		result.Width, result.Height = result.Height, result.Width
	}
}

// Resize writes a copy of img to dst with its longer edge capped at
// maxSize. It returns the bytes written, or zero when dst is up to date.
func (e *Engine) Resize(img *gallery.Image, dst string, maxSize int) (int64, error) {
	fresh, err := filesystem.UpToDate(img.ModTime, dst)
	if err != nil {
		logging.Debug("Cannot stat %s: %v", dst, err)
	}
	if fresh {
		return 0, nil
	}

	src, err := e.load(img.SourcePath, maxSize)
	if err != nil {
		return 0, err
	}
	return e.writeResized(src, maxSize, dst)
}

func (e *Engine) load(path string, target int) (image.Image, error) {
	start := time.Now()
	src, err := e.decode(path, target)
	metrics.ThumbnailGenerationDuration.WithLabelValues("decode").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, &DecodeError{Path: path, Err: err}
	}
	return src, nil
}

func (e *Engine) writeResized(src image.Image, size int, dst string) (int64, error) {
	format, err := imaging.FormatFromFilename(dst)
	if err != nil {
		return 0, &filesystem.IOError{Op: "encode", Path: dst, Err: err}
	}

	start := time.Now()
	thumb := imaging.Fit(src, size, size, imaging.Lanczos)
	metrics.ThumbnailGenerationDuration.WithLabelValues("resize").Observe(time.Since(start).Seconds())

	start = time.Now()
	var written int64
	err = filesystem.WriteAtomic(dst, func(w io.Writer) error {
		cw := &countingWriter{w: w}
		err := imaging.Encode(cw, thumb, format, imaging.JPEGQuality(e.opts.Quality))
		written = cw.n
		return err
	})
	metrics.ThumbnailGenerationDuration.WithLabelValues("encode").Observe(time.Since(start).Seconds())
	if err != nil {
		return 0, err
	}
	return written, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
