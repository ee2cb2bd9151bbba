package thumbnail

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"rigal/internal/gallery"
)

// createTestImage writes a gradient image so resizing is observable.
func createTestImage(t *testing.T, path string, width, height int, format string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: 128,
				A: 255,
			})
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image file: %v", err)
	}
	defer f.Close()

	switch format {
	case "png":
		err = png.Encode(f, img)
	default:
		err = jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
	}
	if err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
}

// newTestImage builds the gallery entry for a file below inputDir.
func newTestImage(t *testing.T, inputDir, rel string) *gallery.Image {
	t.Helper()

	src := filepath.Join(inputDir, filepath.FromSlash(rel))
	info, err := os.Stat(src)
	if err != nil {
		t.Fatalf("Failed to stat %s: %v", src, err)
	}

	album := filepath.ToSlash(filepath.Dir(filepath.FromSlash(rel)))
	return &gallery.Image{
		SourcePath: src,
		RelPath:    rel,
		Name:       filepath.Base(src),
		AlbumPath:  album,
		ModTime:    info.ModTime(),
		Size:       info.Size(),
	}
}

func imageSize(t *testing.T, path string) (int, int) {
	t.Helper()
	dims, err := GetImageDimensions(path)
	if err != nil {
		t.Fatalf("GetImageDimensions(%s) error = %v", path, err)
	}
	return dims.Width, dims.Height
}

func setModTime(t *testing.T, path string, mt time.Time) {
	t.Helper()
	if err := os.Chtimes(path, mt, mt); err != nil {
		t.Fatalf("Chtimes(%s) error = %v", path, err)
	}
}

// setOrientation inserts an EXIF block carrying the orientation tag right
// after the SOI marker of the JPEG at path.
func setOrientation(t *testing.T, path string, orientation uint16) {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Fatalf("%s is not a JPEG", path)
	}

	tiff := []byte{
		'M', 'M', 0x00, 0x2A, // big-endian TIFF header
		0x00, 0x00, 0x00, 0x08, // first IFD offset
		0x00, 0x01, // one entry
		0x01, 0x12, 0x00, 0x03, // Orientation, SHORT
		0x00, 0x00, 0x00, 0x01, // count
		byte(orientation >> 8), byte(orientation), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	segLen := len(payload) + 2
	app1 := append([]byte{0xFF, 0xE1, byte(segLen >> 8), byte(segLen)}, payload...)

	out := make([]byte, 0, len(data)+len(app1))
	out = append(out, data[:2]...)
	out = append(out, app1...)
	out = append(out, data[2:]...)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}
