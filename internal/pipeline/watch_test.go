package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/require"

	"rigal/internal/report"
)

type buildResult struct {
	summary *report.Summary
	err     error
}

func TestWatch_RebuildsOnChange(t *testing.T) {
	old := debounce
	debounce = 50 * time.Millisecond
	t.Cleanup(func() { debounce = old })

	f := newFixture(t, countingIndex)
	f.image(t, "a.jpg", 40, 30)
	cfg := f.config(20)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	builds := make(chan buildResult, 16)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, cfg, Options{}, func(s *report.Summary, err error) {
			builds <- buildResult{s, err}
		})
	}()

	first := waitForBuild(t, builds, func(r buildResult) bool { return true })
	require.NoError(t, first.err)
	require.Equal(t, 1, first.summary.Images)

	// Create the file elsewhere and move it in so no build sees a partial write.
	staging := filepath.Join(f.root, "staging")
	require.NoError(t, os.MkdirAll(staging, 0o755))
	staged := &fixture{input: staging}
	staged.image(t, "b.jpg", 40, 30)
	require.NoError(t, os.MkdirAll(filepath.Join(f.input, "new"), 0o755))
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.Rename(filepath.Join(staging, "b.jpg"), filepath.Join(f.input, "new", "b.jpg")))

	waitForBuild(t, builds, func(r buildResult) bool {
		return r.err == nil && r.summary.Images == 2 && r.summary.ImagesFailed == 0
	})
	require.FileExists(t, filepath.Join(f.output, "new", "index.html"))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func waitForBuild(t *testing.T, builds <-chan buildResult, match func(buildResult) bool) buildResult {
	t.Helper()
	timeout := time.After(15 * time.Second)
	for {
		select {
		case r := <-builds:
			if match(r) {
				return r
			}
		case <-timeout:
			t.Fatal("timed out waiting for build")
			return buildResult{}
		}
	}
}

func TestTreeWatcher_HandleFiltersEvents(t *testing.T) {
	f := newFixture(t, countingIndex)
	cfg := f.config(20)
	cfg.Output = filepath.Join(f.input, "_site")
	w := &treeWatcher{cfg: cfg, watched: map[string]bool{}}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"new image", fsnotify.Event{Name: filepath.Join(f.input, "a.jpg"), Op: fsnotify.Write}, true},
		{"removed image", fsnotify.Event{Name: filepath.Join(f.input, "a.jpg"), Op: fsnotify.Remove}, true},
		{"hidden file", fsnotify.Event{Name: filepath.Join(f.input, ".a.jpg.swp"), Op: fsnotify.Write}, false},
		{"inside output", fsnotify.Event{Name: filepath.Join(cfg.Output, "index.html"), Op: fsnotify.Write}, false},
		{"chmod only", fsnotify.Event{Name: filepath.Join(f.input, "a.jpg"), Op: fsnotify.Chmod}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, w.handle(tt.event))
		})
	}
}

func TestEventType(t *testing.T) {
	require.Equal(t, "create", eventType(fsnotify.Create))
	require.Equal(t, "write", eventType(fsnotify.Write))
	require.Equal(t, "remove", eventType(fsnotify.Remove))
	require.Equal(t, "rename", eventType(fsnotify.Rename))
	require.Equal(t, "chmod", eventType(fsnotify.Chmod))
}
