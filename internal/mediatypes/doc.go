// Package mediatypes provides the image extension allow-list shared by the
// scanner and the thumbnail engine.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions.
//
// # Extension Detection
//
// Use IsImage to decide whether a file takes part in the gallery:
//
//	if mediatypes.IsImage(entry.Name()) {
//	    // Add to album
//	}
//
// Files that are not on the allow-list are ignored, never reported as errors.
//
// # Thumbnail Formats
//
// Not every decodable format can be written back. ThumbnailName maps a
// source file name to the name its thumbnail is stored under, switching to
// JPEG for formats that are read-only (WebP).
package mediatypes
