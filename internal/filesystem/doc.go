/*
Package filesystem provides the output-tree primitives used by the build:
idempotent directory creation, atomic file writes, mtime-based freshness
checks and retrying reads for network filesystems.

# Atomic Writes

WriteAtomic writes into a temporary file in the destination directory and
renames it into place, so a reader never observes a half-written page or
thumbnail:

	err := filesystem.WriteAtomic(path, func(w io.Writer) error {
	    return tmpl.Execute(w, data)
	})

A failed write is retried exactly once when the cause looks transient: the
destination directory vanished or was not yet created by a sibling worker,
or the filesystem returned a stale handle. Anything else is returned as an
*IOError.

# Concurrent Directory Creation

EnsureDir treats "already exists" as success so several workers may race to
create the same album directory.

# Freshness

UpToDate reports whether a derived file exists and is not older than its
source. This is the only incremental-build state; there is no cache
database.

# Retry Behavior

StatWithRetry and OpenWithRetry retry NFS stale file handle errors (ESTALE)
with exponential backoff:
  - MaxRetries: 3 attempts
  - InitialBackoff: 50ms
  - MaxBackoff: 500ms

All other errors fail immediately.

# Metrics

Operations report to the package-level Observer set with SetObserver. The
metrics package provides the Prometheus implementation; without one,
recording is skipped.
*/
package filesystem
