package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"rigal/internal/logging"
)

const maxThumbnailSize = 16384

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateThumbnails(); err != nil {
		return err
	}
	if err := c.validateOriginals(); err != nil {
		return err
	}
	if c.Workers < 0 {
		return &Error{Field: "workers", Msg: "must not be negative"}
	}
	if c.Logging.Level != "" {
		if _, ok := logging.ParseLevel(c.Logging.Level); !ok {
			return &Error{Field: "logging.level", Msg: fmt.Sprintf("unknown level %q", c.Logging.Level)}
		}
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Input == "" {
		return &Error{Field: "input", Msg: "must be set"}
	}
	if c.Output == "" {
		return &Error{Field: "output", Msg: "must be set"}
	}
	if c.Theme == "" {
		return &Error{Field: "theme", Msg: "must be set"}
	}
	if filepath.Clean(c.Input) == filepath.Clean(c.Output) {
		return &Error{Field: "output", Msg: "must differ from input"}
	}
	if rel, err := filepath.Rel(c.Output, c.Input); err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return &Error{Field: "output", Msg: "must not contain the input directory"}
	}
	return nil
}

func (c *Config) validateThumbnails() error {
	if len(c.Thumbnails.Sizes) == 0 {
		return &Error{Field: "thumbnails.sizes", Msg: "at least one size is required"}
	}
	seen := make(map[int]bool, len(c.Thumbnails.Sizes))
	for _, size := range c.Thumbnails.Sizes {
		if size <= 0 || size > maxThumbnailSize {
			return &Error{Field: "thumbnails.sizes", Msg: fmt.Sprintf("size %d out of range 1-%d", size, maxThumbnailSize)}
		}
		if seen[size] {
			return &Error{Field: "thumbnails.sizes", Msg: fmt.Sprintf("size %d listed twice", size)}
		}
		seen[size] = true
	}
	if c.Thumbnails.Quality < 1 || c.Thumbnails.Quality > 100 {
		return &Error{Field: "thumbnails.quality", Msg: "must be between 1 and 100"}
	}
	switch c.Thumbnails.Backend {
	case "imaging", "vips":
	default:
		return &Error{Field: "thumbnails.backend", Msg: fmt.Sprintf("unsupported value %q", c.Thumbnails.Backend)}
	}
	return nil
}

func (c *Config) validateOriginals() error {
	switch c.Originals.Mode {
	case OriginalsCopy, OriginalsLink:
	case OriginalsResize:
		if c.Originals.MaxSize <= 0 {
			return &Error{Field: "originals.max_size", Msg: "must be positive when mode is resize"}
		}
	default:
		return &Error{Field: "originals.mode", Msg: fmt.Sprintf("unsupported value %q", c.Originals.Mode)}
	}
	return nil
}
