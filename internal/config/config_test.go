package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
input = "`+filepath.Join(dir, "photos")+`"
output = "`+filepath.Join(dir, "site")+`"
theme = "`+filepath.Join(dir, "theme")+`"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "photos"), cfg.Input)
	require.Equal(t, filepath.Join(dir, "site"), cfg.Output)
	require.Equal(t, []int{defaultSize}, cfg.Thumbnails.Sizes)
	require.Equal(t, defaultQuality, cfg.Thumbnails.Quality)
	require.Equal(t, "imaging", cfg.Thumbnails.Backend)
	require.Equal(t, OriginalsCopy, cfg.Originals.Mode)
	require.Equal(t, filepath.Join(dir, "theme", "templates"), cfg.TemplateDir())
	require.False(t, cfg.Strict)
}

func TestLoadReplacesSizes(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, `
input = "`+filepath.Join(dir, "gallery")+`"
output = "`+filepath.Join(dir, "out")+`"
strict = true

[thumbnails]
sizes = [200, 800]
quality = 70

[originals]
mode = "Resize"
max_size = 2048
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []int{200, 800}, cfg.Thumbnails.Sizes)
	require.Equal(t, 70, cfg.Thumbnails.Quality)
	require.Equal(t, OriginalsResize, cfg.Originals.Mode)
	require.Equal(t, 2048, cfg.Originals.MaxSize)
	require.True(t, cfg.Strict)
}

func TestLoadRelativePathsBecomeAbsolute(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "input = \"pics\"\noutput = \"_build\"\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(cfg.Input))
	require.True(t, filepath.IsAbs(cfg.Output))
	require.True(t, filepath.IsAbs(cfg.Theme))
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{name: "broken toml", body: "input = [", field: ""},
		{name: "unknown key", body: "inptu = \"x\"", field: ""},
		{name: "same input and output", body: "input = \"" + in + "\"\noutput = \"" + in + "\"", field: "output"},
		{name: "output contains input", body: "input = \"" + filepath.Join(out, "src") + "\"\noutput = \"" + out + "\"", field: "output"},
		{name: "zero size", body: "input = \"" + in + "\"\noutput = \"" + out + "\"\n[thumbnails]\nsizes = [0]", field: "thumbnails.sizes"},
		{name: "duplicate size", body: "input = \"" + in + "\"\noutput = \"" + out + "\"\n[thumbnails]\nsizes = [200, 200]", field: "thumbnails.sizes"},
		{name: "bad quality", body: "input = \"" + in + "\"\noutput = \"" + out + "\"\n[thumbnails]\nquality = 101", field: "thumbnails.quality"},
		{name: "bad backend", body: "input = \"" + in + "\"\noutput = \"" + out + "\"\n[thumbnails]\nbackend = \"magick\"", field: "thumbnails.backend"},
		{name: "resize without size", body: "input = \"" + in + "\"\noutput = \"" + out + "\"\n[originals]\nmode = \"resize\"", field: "originals.max_size"},
		{name: "bad originals mode", body: "input = \"" + in + "\"\noutput = \"" + out + "\"\n[originals]\nmode = \"move\"", field: "originals.mode"},
		{name: "negative workers", body: "input = \"" + in + "\"\noutput = \"" + out + "\"\nworkers = -1", field: "workers"},
		{name: "bad log level", body: "input = \"" + in + "\"\noutput = \"" + out + "\"\n[logging]\nlevel = \"loud\"", field: "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.body)
			_, err := Load(path)
			require.Error(t, err)

			var cfgErr *Error
			require.True(t, errors.As(err, &cfgErr), "expected *config.Error, got %T", err)
			require.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)

	var cfgErr *Error
	require.ErrorAs(t, err, &cfgErr)
	require.ErrorIs(t, err, os.ErrNotExist)
	require.Contains(t, err.Error(), "rigal new")
}

func TestCreateSample(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultFileName)

	require.NoError(t, CreateSample(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, []int{450}, cfg.Thumbnails.Sizes)

	err = CreateSample(path, false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already exists")

	require.NoError(t, CreateSample(path, true))
}
