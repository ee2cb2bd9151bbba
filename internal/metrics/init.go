package metrics

// InitializeMetrics pre-populates all expected label combinations so that
// every metric appears in the textfile even when a build never hit it.
func InitializeMetrics() {
	for _, status := range []string{"generated", "skipped", "failed"} {
		ThumbnailImagesTotal.WithLabelValues(status)
	}
	for _, phase := range []string{"decode", "resize", "encode"} {
		ThumbnailGenerationDuration.WithLabelValues(phase)
	}
	for _, status := range []string{"success", "error"} {
		RenderPagesTotal.WithLabelValues(status)
	}
	for _, stage := range []string{"scan", "thumbnails", "context", "render", "total"} {
		BuildStageDuration.WithLabelValues(stage)
	}

	volumes := []string{"input", "output", "theme", "unknown"}
	for _, vol := range volumes {
		for _, op := range []string{"stat", "open", "write", "copy", "mkdir"} {
			FilesystemOperationDuration.WithLabelValues(vol, op)
			FilesystemOperationErrors.WithLabelValues(vol, op)
		}
		for _, op := range []string{"stat", "open", "write", "copy"} {
			FilesystemRetryAttempts.WithLabelValues(op, vol)
			FilesystemRetrySuccess.WithLabelValues(op, vol)
			FilesystemRetryFailures.WithLabelValues(op, vol)
		}
	}
}
