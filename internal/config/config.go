package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the configuration file looked up in the working directory.
const DefaultFileName = "rigal.toml"

//go:embed sample_config.toml
var sampleConfig string

// Error reports an invalid or missing configuration value.
type Error struct {
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	msg := e.Msg
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return "config: " + msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Thumbnails configures thumbnail generation.
type Thumbnails struct {
	Sizes   []int  `toml:"sizes"`
	Quality int    `toml:"quality"`
	Backend string `toml:"backend"`
}

// OriginalsMode selects how full-size images end up in the output tree.
type OriginalsMode string

const (
	// OriginalsCopy copies the source file next to the album page.
	OriginalsCopy OriginalsMode = "copy"
	// OriginalsResize writes a downscaled copy capped at MaxSize.
	OriginalsResize OriginalsMode = "resize"
	// OriginalsLink places nothing and links the largest thumbnail instead.
	OriginalsLink OriginalsMode = "link"
)

// Originals configures full-size image placement.
type Originals struct {
	Mode    OriginalsMode `toml:"mode"`
	MaxSize int           `toml:"max_size"`
}

// Logging configures log output.
type Logging struct {
	Level string `toml:"level"`
}

// Metrics configures the Prometheus textfile export.
type Metrics struct {
	Textfile string `toml:"textfile"`
}

// Config is the immutable build configuration.
type Config struct {
	Input      string     `toml:"input"`
	Output     string     `toml:"output"`
	Theme      string     `toml:"theme"`
	Title      string     `toml:"title"`
	Strict     bool       `toml:"strict"`
	Workers    int        `toml:"workers"`
	Thumbnails Thumbnails `toml:"thumbnails"`
	Originals  Originals  `toml:"originals"`
	Logging    Logging    `toml:"logging"`
	Metrics    Metrics    `toml:"metrics"`
}

// TemplateDir returns the directory holding the page templates.
func (c *Config) TemplateDir() string {
	return filepath.Join(c.Theme, "templates")
}

// Load reads, normalizes and validates the configuration at path. An empty
// path means DefaultFileName in the working directory. A missing file is an
// error: unlike the input tree, the configuration has no usable defaults for
// the paths it names.
func Load(path string) (*Config, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultFileName
	}

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &Error{Msg: fmt.Sprintf("could not open %s (create one with 'rigal new')", path), Err: err}
		}
		return nil, &Error{Msg: "open config", Err: err}
	}
	defer file.Close()

	cfg := Default()
	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&cfg); err != nil {
		return nil, &Error{Msg: fmt.Sprintf("%s format seems broken", path), Err: err}
	}

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() error {
	for _, p := range []struct {
		field string
		value *string
	}{
		{"input", &c.Input},
		{"output", &c.Output},
		{"theme", &c.Theme},
		{"metrics.textfile", &c.Metrics.Textfile},
	} {
		expanded, err := expandPath(strings.TrimSpace(*p.value))
		if err != nil {
			return &Error{Field: p.field, Msg: "invalid path", Err: err}
		}
		*p.value = expanded
	}

	c.Title = strings.TrimSpace(c.Title)
	if len(c.Thumbnails.Sizes) == 0 {
		c.Thumbnails.Sizes = []int{defaultSize}
	}
	c.Thumbnails.Backend = strings.ToLower(strings.TrimSpace(c.Thumbnails.Backend))
	c.Originals.Mode = OriginalsMode(strings.ToLower(strings.TrimSpace(string(c.Originals.Mode))))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes the sample configuration to path. An existing file is
// left untouched unless overwrite is set.
func CreateSample(path string, overwrite bool) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}
	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%s already exists", path)
		}
		return fmt.Errorf("write sample config: %w", err)
	}
	if _, err := file.WriteString(sampleConfig); err != nil {
		_ = file.Close()
		return fmt.Errorf("write sample config: %w", err)
	}
	return file.Close()
}
