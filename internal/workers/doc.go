/*
Package workers sizes and runs the bounded worker pools used by the build
pipeline.

# Sizing

Worker counts derive from runtime.GOMAXPROCS rather than runtime.NumCPU, so
a build running in a container with a CPU limit does not oversubscribe the
host:

	// Thumbnail generation reads, decodes and writes: a mixed workload.
	n := workers.ForMixed(16)

	// Page rendering is mostly file I/O.
	n := workers.ForIO(32)

The multiplier used by each helper:
  - ForCPU: 1 worker per CPU
  - ForIO: 2 workers per CPU
  - ForMixed: 1.5 workers per CPU

An explicit `workers` value in rigal.toml (or --workers) wins over the
calculation. Otherwise the RIGAL_WORKERS environment variable is honoured:

	RIGAL_WORKERS=4 rigal build

# Running

Each fans a slice of work units out over at most limit goroutines and waits
for all of them:

	err := workers.Each(ctx, n, images, func(ctx context.Context, img *gallery.Image) error {
	    return engine.Process(ctx, img)
	})

A unit that returns an error does not stop its siblings; Each returns the
joined errors once every unit has finished. Units that have not started yet
are skipped once ctx is cancelled.

# Thread Safety

All functions in this package are safe for concurrent use.
*/
package workers
