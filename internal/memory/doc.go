// Package memory sizes the Go heap limit for container deployments.
//
// Thumbnail generation decodes full-size images in parallel, so a build
// running under a cgroup memory limit can be killed long before the garbage
// collector sees pressure. [ConfigureFromEnv] sets GOMEMLIMIT to a fraction
// of the container limit so the collector works harder instead.
//
// Environment variables:
//
//   - GOMEMLIMIT: standard Go variable, takes precedence when set
//   - MEMORY_LIMIT: container memory limit in bytes (Kubernetes Downward API)
//   - MEMORY_RATIO: fraction of MEMORY_LIMIT given to the Go heap (default 0.85)
package memory
