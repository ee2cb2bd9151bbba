package render

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"rigal/internal/config"
	"rigal/internal/filesystem"
	"rigal/internal/gallery"
	"rigal/internal/logging"
	"rigal/internal/metrics"
	"rigal/internal/report"
)

const (
	// EntryTemplate is the template executed for every album.
	EntryTemplate = "index.html"
	// PageName is the file written into each album directory.
	PageName = "index.html"
)

// TemplateError reports a theme that cannot be parsed (Album is empty) or
// an album page whose template execution failed.
type TemplateError struct {
	Album string
	Err   error
}

func (e *TemplateError) Error() string {
	if e.Album == "" {
		return fmt.Sprintf("template: %v", e.Err)
	}
	return fmt.Sprintf("template for album %s: %v", e.Album, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

// Resizer writes a downscaled copy of an image. *thumbnail.Engine
// implements it.
type Resizer interface {
	Resize(img *gallery.Image, dst string, maxSize int) (int64, error)
}

// Options configures a Renderer.
type Options struct {
	Output      string
	TemplateDir string
	Originals   config.Originals
}

// Renderer writes album pages. It is safe for concurrent use: the parsed
// template is only executed, never modified.
type Renderer struct {
	opts    Options
	tmpl    *template.Template
	resizer Resizer
}

var funcs = template.FuncMap{
	// safeHTML marks markdown rendered from album.toml as trusted.
	"safeHTML": func(s string) template.HTML { return template.HTML(s) },
}

// New parses every *.html file in opts.TemplateDir. index.html must be
// among them. resizer may be nil unless originals are resized.
func New(opts Options, resizer Resizer) (*Renderer, error) {
	pattern := filepath.Join(opts.TemplateDir, "*.html")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, &TemplateError{Err: err}
	}
	if len(matches) == 0 {
		return nil, &TemplateError{Err: fmt.Errorf("no templates found in %s", opts.TemplateDir)}
	}

	tmpl, err := template.New("").Funcs(funcs).Option("missingkey=error").ParseFiles(matches...)
	if err != nil {
		return nil, &TemplateError{Err: fmt.Errorf("parse theme: %w", err)}
	}
	if tmpl.Lookup(EntryTemplate) == nil {
		return nil, &TemplateError{Err: fmt.Errorf("%s not found in %s", EntryTemplate, opts.TemplateDir)}
	}
	if opts.Originals.Mode == config.OriginalsResize && resizer == nil {
		return nil, errors.New("resizing originals requires a resizer")
	}

	logging.Debug("Loaded %d template(s) from %s", len(matches), opts.TemplateDir)
	return &Renderer{opts: opts, tmpl: tmpl, resizer: resizer}, nil
}

// AlbumDir returns the output directory of an album.
func (r *Renderer) AlbumDir(a *gallery.Album) string {
	return filepath.Join(r.opts.Output, filepath.FromSlash(a.RelPath))
}

// Execute renders the page template into w without touching the output.
func (r *Renderer) Execute(w io.Writer, page *Page) error {
	return r.execute(w, page.Album, page.Context)
}

func (r *Renderer) execute(w io.Writer, album *gallery.Album, ctx Value) error {
	if err := r.tmpl.ExecuteTemplate(w, EntryTemplate, ctx.Interface()); err != nil {
		return &TemplateError{Album: album.RelPath, Err: err}
	}
	return nil
}

// RenderPage places the album's originals and writes its index page.
// Problems with individual originals are recorded on rep and the page links
// those images to their largest thumbnail instead. Template and page write
// failures are returned.
func (r *Renderer) RenderPage(page *Page, rep *report.Report) error {
	start := time.Now()
	err := r.renderPage(page, rep)
	metrics.RenderDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RenderPagesTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.RenderPagesTotal.WithLabelValues("success").Inc()
	return nil
}

func (r *Renderer) renderPage(page *Page, rep *report.Report) error {
	dir := r.AlbumDir(page.Album)
	if err := filesystem.EnsureDir(dir); err != nil {
		return err
	}

	ctx := page.Context
	if failed := r.placeOriginals(page, dir, rep); len(failed) > 0 {
		ctx = page.withFallbacks(failed)
	}

	var buf bytes.Buffer
	if err := r.execute(&buf, page.Album, ctx); err != nil {
		return err
	}

	dst := filepath.Join(dir, PageName)
	if existing, err := os.ReadFile(dst); err == nil && bytes.Equal(existing, buf.Bytes()) {
		logging.Debug("Page unchanged: %s", dst)
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Debug("Cannot read existing page %s: %v", dst, err)
	}

	size := int64(buf.Len())
	if err := filesystem.WriteAtomic(dst, func(w io.Writer) error {
		_, err := w.Write(buf.Bytes())
		return err
	}); err != nil {
		return err
	}
	rep.AddBytes(size)
	return nil
}

// placeOriginals returns the indexes into page.Images whose original could
// not be placed.
func (r *Renderer) placeOriginals(page *Page, dir string, rep *report.Report) []int {
	mode := r.opts.Originals.Mode
	var failed []int
	for i, img := range page.Images {
		name := OriginalName(mode, img.Name)
		if name == "" {
			return nil
		}
		dst := filepath.Join(dir, name)

		var err error
		var written int64
		switch mode {
		case config.OriginalsResize:
			written, err = r.resizer.Resize(img, dst, r.opts.Originals.MaxSize)
		default:
			written, err = copyOriginal(img, dst)
		}
		if err != nil {
			logging.Warn("Failed to place original %s: %v", img.RelPath, err)
			rep.Warn(report.StageOriginals, img.RelPath, err)
			failed = append(failed, i)
			continue
		}
		rep.AddBytes(written)
	}
	return failed
}

func copyOriginal(img *gallery.Image, dst string) (int64, error) {
	fresh, err := filesystem.UpToDate(img.ModTime, dst)
	if err != nil {
		logging.Debug("Cannot stat %s: %v", dst, err)
	}
	if fresh {
		return 0, nil
	}
	if err := filesystem.CopyFile(img.SourcePath, dst); err != nil {
		return 0, err
	}
	return img.Size, nil
}
