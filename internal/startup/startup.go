package startup

import (
	"os"
	"runtime"
	"time"

	"rigal/internal/config"
	"rigal/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// LogBanner logs the version header printed at the start of a build.
func LogBanner() {
	logging.Info("------------------------------------------------------------")
	logging.Info("rigal %s", Version)
	logging.Info("  Commit:     %s", Commit)
	logging.Info("  Build Time: %s", BuildTime)
	logging.Info("  Started:    %s", time.Now().Format(time.RFC1123))
	logging.Info("------------------------------------------------------------")
}

// LogSystemInfo logs the runtime environment. Extra detail is only logged at
// debug level.
func LogSystemInfo() {
	logging.Info("  Go version:      %s", runtime.Version())
	logging.Info("  OS/Arch:         %s/%s", runtime.GOOS, runtime.GOARCH)
	logging.Info("  CPUs available:  %d", runtime.NumCPU())
	logging.Info("  GOMAXPROCS:      %d", runtime.GOMAXPROCS(0))

	if runtime.GOMAXPROCS(0) < runtime.NumCPU() {
		logging.Info("  (Container CPU limit detected)")
	}

	if logging.IsDebugEnabled() {
		if wd, err := os.Getwd(); err == nil {
			logging.Debug("  Working dir:     %s", wd)
		}
		if hostname, err := os.Hostname(); err == nil {
			logging.Debug("  Hostname:        %s", hostname)
		}
	}
}

// LogConfiguration logs the effective build configuration.
func LogConfiguration(cfg *config.Config) {
	logging.Info("CONFIGURATION")
	logging.Info("  Input:           %s", cfg.Input)
	logging.Info("  Output:          %s", cfg.Output)
	logging.Info("  Theme:           %s", cfg.Theme)
	logging.Info("  Thumbnail sizes: %v (%s, quality %d)", cfg.Thumbnails.Sizes, cfg.Thumbnails.Backend, cfg.Thumbnails.Quality)
	logging.Info("  Originals:       %s", cfg.Originals.Mode)
	if cfg.Workers > 0 {
		logging.Info("  Workers:         %d", cfg.Workers)
	} else {
		logging.Info("  Workers:         auto")
	}
	if cfg.Strict {
		logging.Info("  Strict mode:     enabled")
	}
	if cfg.Metrics.Textfile != "" {
		logging.Info("  Metrics file:    %s", cfg.Metrics.Textfile)
	}
}
