// Package startup reports build-time version information and logs the
// runtime and configuration header at the start of a build.
//
// Version, Commit and BuildTime are injected at link time:
//
//	go build -ldflags "-X rigal/internal/startup.Version=v1.2.0 \
//	  -X rigal/internal/startup.Commit=$(git rev-parse --short HEAD)" ./cmd/rigal
package startup
