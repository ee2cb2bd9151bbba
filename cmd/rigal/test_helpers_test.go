package main

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

type testSite struct {
	configPath string
	output     string
}

// setupSite creates an input tree with one album, a minimal theme and a
// configuration file pointing at both.
func setupSite(t *testing.T, extra string) testSite {
	t.Helper()
	root := t.TempDir()
	input := filepath.Join(root, "photos")
	output := filepath.Join(root, "_build")
	theme := filepath.Join(root, "_theme")

	writeJPEG(t, filepath.Join(input, "trip", "beach.jpg"), 64, 48)
	writeJPEG(t, filepath.Join(input, "cover.jpg"), 32, 32)

	templates := filepath.Join(theme, "templates")
	if err := os.MkdirAll(templates, 0o755); err != nil {
		t.Fatal(err)
	}
	index := `{{.album.title}}{{range .album.images}} {{.thumbnail}}{{end}}`
	if err := os.WriteFile(filepath.Join(templates, "index.html"), []byte(index), 0o644); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(root, "rigal.toml")
	content := fmt.Sprintf("input = %q\noutput = %q\ntheme = %q\n\n[thumbnails]\nsizes = [16]\n%s",
		input, output, theme, extra)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return testSite{configPath: configPath, output: output}
}

func writeJPEG(t *testing.T, path string, width, height int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 4), B: 128, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, nil); err != nil {
		t.Fatal(err)
	}
}
