package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/color"
	"image/jpeg"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"rigal/internal/config"
)

// countingIndex prints the numbers the build tests assert on.
const countingIndex = `{{.album.title}}: {{len .album.images}} images, {{len .album.albums}} albums
{{range .album.albums}}album {{.}}
{{end}}{{range .album.images}}image {{.image}} {{.thumbnail}}
{{end}}`

type fixture struct {
	root   string
	input  string
	output string
	theme  string
}

func newFixture(t *testing.T, index string) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		root:   root,
		input:  filepath.Join(root, "gallery"),
		output: filepath.Join(root, "_build"),
		theme:  filepath.Join(root, "_theme"),
	}
	require.NoError(t, os.MkdirAll(f.input, 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.theme, "templates"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.theme, "templates", "index.html"), []byte(index), 0o644))
	return f
}

func (f *fixture) config(sizes ...int) *config.Config {
	cfg := config.Default()
	cfg.Input = f.input
	cfg.Output = f.output
	cfg.Theme = f.theme
	cfg.Thumbnails.Sizes = sizes
	cfg.Workers = 4
	return &cfg
}

func (f *fixture) image(t *testing.T, rel string, width, height int) {
	t.Helper()
	path := filepath.Join(f.input, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	out, err := os.Create(path)
	require.NoError(t, err)
	defer out.Close()
	require.NoError(t, jpeg.Encode(out, img, &jpeg.Options{Quality: 90}))
}

func (f *fixture) corrupt(t *testing.T, rel string) {
	t.Helper()
	path := filepath.Join(f.input, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("this is not a jpeg"), 0o644))
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.output, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

// snapshot hashes every file below dir by relative path.
func snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	out := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, path)
		sum := sha256.Sum256(data)
		out[filepath.ToSlash(rel)] = hex.EncodeToString(sum[:])
		return nil
	})
	require.NoError(t, err)
	return out
}
