// Package thumbnail generates the resized derivatives of source images.
//
// An Engine handles one image at a time: it checks every configured size
// against the existing output, decodes the source once if anything is out
// of date, and writes each missing size with imaging.Fit, which preserves
// the aspect ratio and never enlarges. A thumbnail whose modification time
// is not older than its source is left alone, so a repeated build performs
// no writes for unchanged images.
//
// Thumbnails live at <output>/<album>/thumbnails/<size>/<file>. Sources in
// a format imaging cannot encode (WebP) get a .jpg suffix.
//
// Decoding uses imaging with the LoadImageConstrained guard by default; the
// vips backend uses libvips decode-time shrinking instead. Decode failures
// are returned as *DecodeError and write failures as *filesystem.IOError.
// Neither stops other images from being processed.
package thumbnail
