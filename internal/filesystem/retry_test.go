package filesystem

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"
)

func TestDefaultRetryConfig(t *testing.T) {
	config := DefaultRetryConfig()

	if config.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want 3", config.MaxRetries)
	}
	if config.InitialBackoff != 50*time.Millisecond {
		t.Errorf("InitialBackoff = %v, want 50ms", config.InitialBackoff)
	}
	if config.MaxBackoff != 500*time.Millisecond {
		t.Errorf("MaxBackoff = %v, want 500ms", config.MaxBackoff)
	}
	if config.VolumeResolver != nil {
		t.Error("VolumeResolver should be nil by default")
	}
}

func TestIsNFSStaleError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil error", err: nil, want: false},
		{name: "ESTALE error", err: syscall.ESTALE, want: true},
		{name: "wrapped ESTALE", err: &os.PathError{Op: "open", Path: "/x", Err: syscall.ESTALE}, want: true},
		{name: "ENOENT error", err: syscall.ENOENT, want: false},
		{name: "generic error", err: os.ErrNotExist, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isNFSStaleError(tt.err)
			if got != tt.want {
				t.Errorf("isNFSStaleError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestVolumeResolver_Resolve(t *testing.T) {
	vr := NewVolumeResolver(map[string]string{
		"input":  "/photos",
		"output": "/site",
		"theme":  "/site/theme",
	})

	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "input root", path: "/photos", want: "input"},
		{name: "input file", path: "/photos/trip/a.jpg", want: "input"},
		{name: "output file", path: "/site/trip/index.html", want: "output"},
		{name: "longest prefix wins", path: "/site/theme/templates/index.html", want: "theme"},
		{name: "sibling with shared prefix", path: "/photos2/a.jpg", want: "unknown"},
		{name: "unknown path", path: "/etc/hosts", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := vr.Resolve(tt.path)
			if got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestVolumeResolver_Resolve_NilResolver(t *testing.T) {
	var vr *VolumeResolver
	got := vr.Resolve("/photos/test.jpg")
	if got != "unknown" {
		t.Errorf("nil resolver Resolve() = %q, want %q", got, "unknown")
	}
}

func TestStatWithRetry_Success(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	info, err := StatWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("StatWithRetry() error = %v", err)
	}
	if info.Size() != 5 {
		t.Errorf("Size() = %d, want 5", info.Size())
	}
}

func TestStatWithRetry_NotExist(t *testing.T) {
	config := RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Second,
		MaxBackoff:     time.Second,
	}

	start := time.Now()
	_, err := StatWithRetry(filepath.Join(t.TempDir(), "missing"), config)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	// Non-stale errors must fail immediately without backoff.
	if time.Since(start) > 500*time.Millisecond {
		t.Errorf("StatWithRetry slept on a non-retryable error")
	}
}

func TestOpenWithRetry_Success(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "file.txt")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	f, err := OpenWithRetry(path, DefaultRetryConfig())
	if err != nil {
		t.Fatalf("OpenWithRetry() error = %v", err)
	}
	defer f.Close()

	buf := make([]byte, 4)
	if _, err := f.Read(buf); err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(buf) != "data" {
		t.Errorf("read %q, want %q", buf, "data")
	}
}

type recordingObserver struct {
	ops []string
}

func (r *recordingObserver) ObserveOperation(volume, operation string, _ float64, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	r.ops = append(r.ops, volume+":"+operation+":"+status)
}
func (r *recordingObserver) ObserveRetryAttempt(string, string) {}
func (r *recordingObserver) ObserveRetrySuccess(string, string) {}
func (r *recordingObserver) ObserveRetryFailure(string, string) {}

func TestObserverReceivesOperations(t *testing.T) {
	tmpDir := t.TempDir()
	obs := &recordingObserver{}
	SetObserver(obs)
	SetDefaultVolumeResolver(NewVolumeResolver(map[string]string{"output": tmpDir}))
	defer func() {
		SetObserver(nil)
		SetDefaultVolumeResolver(nil)
	}()

	if _, err := StatWithRetry(filepath.Join(tmpDir, "missing"), DefaultRetryConfig()); err == nil {
		t.Fatal("expected error")
	}

	if len(obs.ops) != 1 || obs.ops[0] != "output:stat:error" {
		t.Errorf("observed %v, want [output:stat:error]", obs.ops)
	}
}
