package filesystem

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"rigal/internal/logging"
)

// IOError reports a failed write to the output tree.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// EnsureDir creates path and its parents. A directory that already exists,
// including one created concurrently by another worker, is not an error.
func EnsureDir(path string) error {
	start := time.Now()
	err := os.MkdirAll(path, 0o755)
	if err != nil && errors.Is(err, fs.ErrExist) {
		if info, statErr := os.Stat(path); statErr == nil && info.IsDir() {
			err = nil
		}
	}
	observe().ObserveOperation(defaultResolver.Resolve(path), "mkdir", time.Since(start).Seconds(), err)
	if err != nil {
		return &IOError{Op: "mkdir", Path: path, Err: err}
	}
	return nil
}

// isTransientWriteError reports whether a write failure is worth one retry.
// ENOENT covers a destination directory that a racing worker has not
// finished creating, or that was removed underneath us.
func isTransientWriteError(err error) bool {
	if err == nil {
		return false
	}
	var wf *writeFailure
	if errors.As(err, &wf) {
		return false
	}
	if isNFSStaleError(err) || errors.Is(err, fs.ErrNotExist) {
		return true
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == syscall.EAGAIN || errno == syscall.EINTR
	}
	return false
}

// WriteAtomic writes the content produced by write to path through a
// temporary file in the same directory followed by a rename. The parent
// directory is created when missing. Transient failures are retried once.
func WriteAtomic(path string, write func(w io.Writer) error) error {
	return writeAtomic("write", path, write)
}

func writeAtomic(op, path string, write func(w io.Writer) error) error {
	start := time.Now()
	volume := defaultResolver.Resolve(path)
	obs := observe()
	dir := filepath.Dir(path)

	err := writeOnce(dir, path, write)
	if err != nil && isTransientWriteError(err) {
		obs.ObserveRetryAttempt(op, volume)
		logging.Debug("Transient %s failure for %s, retrying once: %v", op, path, err)
		if mkErr := EnsureDir(dir); mkErr != nil {
			err = mkErr
		} else if err = writeOnce(dir, path, write); err == nil {
			obs.ObserveRetrySuccess(op, volume)
		} else {
			obs.ObserveRetryFailure(op, volume)
		}
	}

	obs.ObserveOperation(volume, op, time.Since(start).Seconds(), err)
	if err != nil {
		var ioErr *IOError
		if errors.As(err, &ioErr) {
			return err
		}
		var wf *writeFailure
		if errors.As(err, &wf) {
			err = wf.err
		}
		return &IOError{Op: op, Path: path, Err: err}
	}
	return nil
}

// writeFailure marks an error returned by the caller's write function so it is
// not mistaken for a filesystem fault and retried.
type writeFailure struct{ err error }

func (w *writeFailure) Error() string { return w.err.Error() }
func (w *writeFailure) Unwrap() error { return w.err }

func writeOnce(dir, path string, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if werr := write(tmp); werr != nil {
		_ = tmp.Close()
		var wf *writeFailure
		if errors.As(werr, &wf) {
			return werr
		}
		return &writeFailure{err: werr}
	}
	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// CopyFile copies src to dst atomically and gives dst the modification time
// of src, so UpToDate(src, dst) holds afterwards.
func CopyFile(src, dst string) error {
	in, err := OpenWithRetry(src, DefaultRetryConfig())
	if err != nil {
		return &IOError{Op: "copy", Path: src, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &IOError{Op: "copy", Path: src, Err: err}
	}

	err = writeAtomic("copy", dst, func(w io.Writer) error {
		if _, err := in.Seek(0, io.SeekStart); err != nil {
			return err
		}
		_, err := io.Copy(w, in)
		return err
	})
	if err != nil {
		return err
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return &IOError{Op: "chtimes", Path: dst, Err: err}
	}
	return nil
}

// UpToDate reports whether dst exists and its modification time is not
// older than srcModTime. A missing dst is not an error.
func UpToDate(srcModTime time.Time, dst string) (bool, error) {
	info, err := StatWithRetry(dst, DefaultRetryConfig())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", dst)
	}
	return !info.ModTime().Before(srcModTime), nil
}
