package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds every rigal metric. It is separate from the default
// registry so the textfile only carries build metrics plus Go runtime stats.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

func init() {
	Registry.MustRegister(collectors.NewGoCollector())
}

// Scanner metrics
var (
	ScannerAlbums = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "rigal_scanner_albums",
			Help: "Number of albums found by the last scan",
		},
	)

	ScannerImages = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "rigal_scanner_images",
			Help: "Number of images found by the last scan",
		},
	)

	ScannerWarnings = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "rigal_scanner_warnings_total",
			Help: "Total number of non-fatal scan problems",
		},
	)
)

// Watch mode metrics
var (
	WatcherEventsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigal_watcher_events_total",
			Help: "Total number of filesystem events seen in watch mode",
		},
		[]string{"type"}, // "create", "write", "remove", "rename", "chmod"
	)

	WatcherErrors = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "rigal_watcher_errors_total",
			Help: "Total number of file watcher errors",
		},
	)

	WatchedDirectories = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "rigal_watcher_directories",
			Help: "Number of directories watched in watch mode",
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailImagesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigal_thumbnail_images_total",
			Help: "Total number of images processed by the thumbnail stage",
		},
		[]string{"status"}, // "generated", "skipped", "failed"
	)

	ThumbnailGenerationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rigal_thumbnail_generation_duration_seconds",
			Help:    "Duration of thumbnail generation phases in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"phase"}, // "decode", "resize", "encode"
	)
)

// Render metrics
var (
	RenderPagesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigal_render_pages_total",
			Help: "Total number of album pages rendered",
		},
		[]string{"status"}, // "success", "error"
	)

	RenderDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rigal_render_duration_seconds",
			Help:    "Time to render and write one album page",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)
)

// Build metrics
var (
	BuildStageDuration = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rigal_build_duration_seconds",
			Help: "Wall time of each pipeline stage in the last build",
		},
		[]string{"stage"}, // "scan", "thumbnails", "context", "render", "total"
	)

	BuildLastSuccess = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "rigal_build_last_success_timestamp",
			Help: "Unix timestamp of the last successful build",
		},
	)
)

// Filesystem metrics
var (
	FilesystemOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rigal_filesystem_operation_duration_seconds",
			Help:    "Duration of filesystem operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"volume", "operation"},
	)

	FilesystemOperationErrors = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigal_filesystem_operation_errors_total",
			Help: "Total number of failed filesystem operations",
		},
		[]string{"volume", "operation"},
	)

	FilesystemRetryAttempts = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigal_filesystem_retry_attempts_total",
			Help: "Total number of filesystem operation retries",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetrySuccess = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigal_filesystem_retry_success_total",
			Help: "Total number of filesystem operations that succeeded after retrying",
		},
		[]string{"operation", "volume"},
	)

	FilesystemRetryFailures = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rigal_filesystem_retry_failures_total",
			Help: "Total number of filesystem operations that failed after retrying",
		},
		[]string{"operation", "volume"},
	)
)
