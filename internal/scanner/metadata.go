package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/yuin/goldmark"

	"rigal/internal/gallery"
	"rigal/internal/report"
)

// MetadataFile is the optional per-album metadata file.
const MetadataFile = "album.toml"

// Metadata is the content of an album.toml file.
type Metadata struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

// ReadMetadata loads album.toml from dir. A missing file yields nil, nil.
func ReadMetadata(dir string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(dir, MetadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var md Metadata
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&md); err != nil {
		return nil, fmt.Errorf("%s format seems broken: %w", MetadataFile, err)
	}
	md.Title = strings.TrimSpace(md.Title)
	return &md, nil
}

// RenderDescription converts markdown to HTML.
func RenderDescription(markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *Scanner) applyMetadata(album *gallery.Album, dir string) {
	md, err := ReadMetadata(dir)
	if err != nil {
		s.warn(report.StageMetadata, gallery.Join(album.RelPath, MetadataFile), err)
		return
	}
	if md == nil {
		return
	}

	if md.Title != "" {
		album.Title = md.Title
	}
	description, err := RenderDescription(md.Description)
	if err != nil {
		s.warn(report.StageMetadata, gallery.Join(album.RelPath, MetadataFile), fmt.Errorf("render description: %w", err))
		return
	}
	album.Description = description
}
