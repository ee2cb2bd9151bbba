package scanner

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"rigal/internal/gallery"
	"rigal/internal/logging"
	"rigal/internal/mediatypes"
	"rigal/internal/metrics"
	"rigal/internal/report"
)

// ErrUnreadable matches any *UnreadableError.
var ErrUnreadable = errors.New("unreadable directory")

// UnreadableError reports that the input root could not be opened.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("cannot read input directory %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrUnreadable) succeed.
func (e *UnreadableError) Is(target error) bool {
	return target == ErrUnreadable
}

// Options configures a scan.
type Options struct {
	// Root is the input directory.
	Root string
	// Title overrides the root album title unless album.toml sets one.
	Title string
	// Exclude lists directories that are never scanned.
	Exclude []string
}

// Scanner builds one album tree. It is not safe for concurrent use.
type Scanner struct {
	opts     Options
	report   *report.Report
	visited  map[string]bool
	excluded map[string]bool
}

// New creates a Scanner that records warnings on rep.
func New(opts Options, rep *report.Report) *Scanner {
	s := &Scanner{
		opts:     opts,
		report:   rep,
		visited:  make(map[string]bool),
		excluded: make(map[string]bool),
	}
	for _, p := range opts.Exclude {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			s.excluded[abs] = true
		}
		if canonical, err := filepath.EvalSymlinks(p); err == nil {
			s.excluded[canonical] = true
		}
	}
	return s
}

// Scan is shorthand for New(opts, rep).Scan().
func Scan(opts Options, rep *report.Report) (*gallery.Tree, error) {
	return New(opts, rep).Scan()
}

// Scan walks the input root and returns the album tree.
func (s *Scanner) Scan() (*gallery.Tree, error) {
	root, err := filepath.Abs(s.opts.Root)
	if err != nil {
		return nil, &UnreadableError{Path: s.opts.Root, Err: err}
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, &UnreadableError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &UnreadableError{Path: root, Err: errors.New("not a directory")}
	}

	canonical, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, &UnreadableError{Path: root, Err: err}
	}
	s.visited[canonical] = true

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &UnreadableError{Path: root, Err: err}
	}

	album := s.buildAlbum(root, gallery.RootPath, filepath.Base(root), "", entries)
	tree := gallery.NewTree(album)

	logging.Debug("Scanned %s: %d albums, %d images", root, len(tree.Albums()), album.ImageCount())
	return tree, nil
}

// scanDir reads a subdirectory. It returns nil when the directory is
// unreadable or holds no images anywhere below it.
func (s *Scanner) scanDir(dir, rel, parentRel string) *gallery.Album {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.warn(report.StageScan, rel, fmt.Errorf("skipping unreadable directory: %w", err))
		return nil
	}

	album := s.buildAlbum(dir, rel, filepath.Base(dir), parentRel, entries)
	if album.ImageCount() == 0 {
		logging.Debug("Pruning empty album %s", rel)
		return nil
	}
	return album
}

// buildAlbum classifies entries, which os.ReadDir returns sorted by name.
func (s *Scanner) buildAlbum(dir, rel, name, parentRel string, entries []os.DirEntry) *gallery.Album {
	album := &gallery.Album{
		RelPath:    rel,
		Name:       name,
		Title:      name,
		ParentPath: parentRel,
	}
	if album.IsRoot() && s.opts.Title != "" {
		album.Title = s.opts.Title
	}
	s.applyMetadata(album, dir)

	for _, entry := range entries {
		entryName := entry.Name()
		if strings.HasPrefix(entryName, ".") {
			continue
		}

		fullPath := filepath.Join(dir, entryName)
		entryRel := gallery.Join(rel, entryName)

		info, err := entryInfo(entry, fullPath)
		if err != nil {
			s.warn(report.StageScan, entryRel, fmt.Errorf("skipping entry: %w", err))
			continue
		}

		if info.IsDir() {
			if child := s.enterDir(fullPath, entryRel, rel); child != nil {
				album.Children = append(album.Children, child)
			}
			continue
		}

		if !info.Mode().IsRegular() || !mediatypes.IsImage(entryName) {
			continue
		}

		album.Images = append(album.Images, &gallery.Image{
			SourcePath: fullPath,
			RelPath:    entryRel,
			Name:       entryName,
			AlbumPath:  rel,
			ModTime:    info.ModTime(),
			Size:       info.Size(),
		})
	}

	return album
}

// enterDir applies the exclusion and cycle checks before descending.
func (s *Scanner) enterDir(fullPath, rel, parentRel string) *gallery.Album {
	if s.excluded[fullPath] {
		logging.Debug("Skipping excluded directory %s", fullPath)
		return nil
	}

	canonical, err := filepath.EvalSymlinks(fullPath)
	if err != nil {
		s.warn(report.StageScan, rel, fmt.Errorf("cannot resolve directory: %w", err))
		return nil
	}
	if s.excluded[canonical] {
		logging.Debug("Skipping excluded directory %s", fullPath)
		return nil
	}
	if s.visited[canonical] {
		s.warn(report.StageScan, rel, fmt.Errorf("not following link to already visited directory %s", canonical))
		return nil
	}
	s.visited[canonical] = true

	return s.scanDir(fullPath, rel, parentRel)
}

// entryInfo returns file info, following symbolic links.
func entryInfo(entry os.DirEntry, fullPath string) (os.FileInfo, error) {
	if entry.Type()&os.ModeSymlink != 0 {
		return os.Stat(fullPath)
	}
	return entry.Info()
}

func (s *Scanner) warn(stage report.Stage, rel string, err error) {
	logging.Warn("%s: %v", rel, err)
	metrics.ScannerWarnings.Inc()
	if s.report != nil {
		s.report.Warn(stage, rel, err)
	}
}
