package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryInterval is how often a writer polls a lock held by another run.
const lockRetryInterval = 50 * time.Millisecond

// Writer writes generated files to persistent storage.
type Writer interface {
	WriteFile(ctx context.Context, path string, data []byte) error
}

// NewOSWriter returns a Writer that performs atomic writes on the local
// filesystem. Each write holds an advisory lock on path + ".lock" so build
// steps regenerating the same output serialise.
func NewOSWriter() Writer {
	return &osWriter{perm: 0o644}
}

type osWriter struct {
	perm fs.FileMode
}

func (w *osWriter) WriteFile(ctx context.Context, path string, data []byte) error {
	if path == "" {
		return errors.New("pipeline: empty path")
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetryInterval)
	if err != nil {
		return fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return fmt.Errorf("lock %s: not acquired", path)
	}
	defer func() { _ = lock.Unlock() }()

	tmp, err := os.CreateTemp(dir, ".sqlembed-")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = os.Remove(tmpName)
		}
		_ = tmp.Close()
	}()
	if w.perm != 0 {
		if err := tmp.Chmod(w.perm); err != nil {
			return fmt.Errorf("chmod temp file: %w", err)
		}
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	success = true
	return nil
}

// fileMatches reports whether path already holds exactly content.
func fileMatches(path string, content []byte) (bool, error) {
	existing, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return bytes.Equal(existing, content), nil
}
