/*
Package metrics provides Prometheus metrics for rigal builds.

A build is a short-lived process, so nothing is served over HTTP. Metrics
are registered on a private Registry and written to a node_exporter style
textfile once the build finishes (see WriteTextfile), which lets a cron job
or CI runner track build health over time.

# Available Metrics

Scanner:
  - rigal_scanner_albums: Albums found by the last scan
  - rigal_scanner_images: Images found by the last scan
  - rigal_scanner_warnings_total: Non-fatal scan problems (unreadable directories, symlink loops)

Watch mode:
  - rigal_watcher_events_total{type}: Filesystem events seen while watching
  - rigal_watcher_errors_total: File watcher errors
  - rigal_watcher_directories: Directories currently watched

Thumbnails:
  - rigal_thumbnail_images_total{status}: Images by outcome (generated, skipped, failed)
  - rigal_thumbnail_generation_duration_seconds{phase}: decode, resize and encode timings

Rendering:
  - rigal_render_pages_total{status}: Album pages by outcome
  - rigal_render_duration_seconds: Time to render and write one page

Build:
  - rigal_build_duration_seconds{stage}: Wall time per pipeline stage
  - rigal_build_last_success_timestamp: Unix time of the last successful build

Filesystem:
  - rigal_filesystem_operation_duration_seconds{volume, operation}
  - rigal_filesystem_operation_errors_total{volume, operation}
  - rigal_filesystem_retry_attempts_total{operation, volume}
  - rigal_filesystem_retry_success_total{operation, volume}
  - rigal_filesystem_retry_failures_total{operation, volume}

# Usage

	filesystem.SetObserver(metrics.NewFilesystemObserver())
	// ... build ...
	if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
	    logging.Warn("failed to write metrics: %v", err)
	}
*/
package metrics
