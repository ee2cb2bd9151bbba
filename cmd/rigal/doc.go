// Package main provides the rigal command, a static site generator for photo
// galleries.
//
// rigal walks a directory tree of images, generates thumbnails for every
// image, and renders one HTML page per album from a theme's templates. The
// output directory can be served by any static web server.
//
// # Commands
//
//   - rigal new [--force]: write a sample rigal.toml in the working directory
//   - rigal build [--config FILE] [--strict] [--workers N] [--log-level L]
//     [--no-progress] [--watch]: build the gallery
//   - rigal version [--json]: print build information
//
// # Exit Status
//
// build exits 0 when the site was written, even if some images or albums
// were skipped with warnings, and 1 on any fatal error: an invalid
// configuration, an unreadable input directory, a broken theme, a locked
// output directory, or a template failure in strict mode.
//
// # Environment Variables
//
//   - LOG_LEVEL: default log level (debug/info/warn/error)
//   - DEBUG: enable debug logging when set to true
//   - RIGAL_WORKERS: worker count override when the config leaves workers at 0
//   - GOMEMLIMIT, MEMORY_LIMIT, MEMORY_RATIO: Go heap limit, see package memory
package main
