package mediatypes

import (
	"path/filepath"
	"strings"
)

// FileType represents the type of a file found in the input tree.
type FileType string

const (
	// FileTypeImage represents an image file.
	FileTypeImage FileType = "image"
	// FileTypeOther represents an unknown or unsupported file type.
	FileTypeOther FileType = "other"
)

// ImageExtensions maps file extensions to whether they are supported image formats.
// Only formats with a registered Go decoder are listed.
var ImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
	".tiff": true,
	".tif":  true,
}

// writableExtensions lists the image extensions the thumbnail encoder can produce.
var writableExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".bmp":  true,
	".tiff": true,
	".tif":  true,
}

// Ext returns the lowercase extension of name including the leading dot.
func Ext(name string) string {
	return strings.ToLower(filepath.Ext(name))
}

// GetFileType returns the FileType for a given file extension.
// The extension should be lowercase and include the leading dot (e.g., ".jpg").
// Returns FileTypeOther if the extension is not recognized.
func GetFileType(ext string) FileType {
	if ImageExtensions[ext] {
		return FileTypeImage
	}
	return FileTypeOther
}

// IsImage reports whether the file name carries an allow-listed image extension.
func IsImage(name string) bool {
	return GetFileType(Ext(name)) == FileTypeImage
}

// ThumbnailName returns the file name used for the thumbnail of the source
// file name. Formats that cannot be encoded get ".jpg" appended so the
// result is still unique per source.
func ThumbnailName(name string) string {
	if writableExtensions[Ext(name)] {
		return name
	}
	return name + ".jpg"
}
