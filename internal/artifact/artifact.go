// Package artifact handles the lifecycle of trained model files: optional
// loading with an explicit absent state, per-process caching, and
// write-then-publish persistence.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Option is either Loaded(value) or Absent.
type Option[T any] struct {
	value T
	ok    bool
	// reason explains an absent value for logging.
	reason error
}

// Loaded wraps a successfully loaded value.
func Loaded[T any](v T) Option[T] {
	return Option[T]{value: v, ok: true}
}

// Absent marks a value as unavailable. The reason is informational only.
func Absent[T any](reason error) Option[T] {
	return Option[T]{reason: reason}
}

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) {
	return o.value, o.ok
}

// IsLoaded reports whether the value is present.
func (o Option[T]) IsLoaded() bool {
	return o.ok
}

// Reason returns why the value is absent, or nil when loaded.
func (o Option[T]) Reason() error {
	return o.reason
}

// LoadFunc reads an artifact from its canonical location.
type LoadFunc[T any] func() (T, error)

// Lazy loads an artifact on first use and caches a successful result for the
// lifetime of the process. Absent results are not cached, so an artifact that
// appears after a training run becomes visible on the next call.
type Lazy[T any] struct {
	name   string
	load   LoadFunc[T]
	logger *zap.Logger

	mu     sync.Mutex
	loaded atomic.Pointer[T]
}

// NewLazy creates a lazy loader. name is used in log entries.
func NewLazy[T any](name string, load LoadFunc[T], logger *zap.Logger) *Lazy[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Lazy[T]{name: name, load: load, logger: logger}
}

// Load returns the cached artifact or tries to read it. It never returns an error:
// a missing or corrupt artifact is reported as Absent.
func (l *Lazy[T]) Load() Option[T] {
	if v := l.loaded.Load(); v != nil {
		return Loaded(*v)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if v := l.loaded.Load(); v != nil {
		return Loaded(*v)
	}

	v, err := l.load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			l.logger.Debug("artifact not found", zap.String("artifact", l.name))
		} else {
			l.logger.Warn("artifact unreadable, treating as absent", zap.String("artifact", l.name), zap.Error(err))
		}
		return Absent[T](err)
	}

	l.loaded.Store(&v)
	l.logger.Info("artifact loaded", zap.String("artifact", l.name))
	return Loaded(v)
}

// Reset drops the cached value.
func (l *Lazy[T]) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.loaded.Store(nil)
}

// ReadJSON decodes a JSON artifact from path.
func ReadJSON[T any](path string) (T, error) {
	var out T
	file, err := os.Open(path)
	if err != nil {
		return out, err
	}
	defer file.Close()

	if err := json.NewDecoder(file).Decode(&out); err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

// File is one artifact to persist.
type File struct {
	Path  string
	Write func(w io.Writer) error
}

// JSONFile returns a File that encodes v as JSON.
func JSONFile(path string, v any) File {
	return File{
		Path: path,
		Write: func(w io.Writer) error {
			return json.NewEncoder(w).Encode(v)
		},
	}
}

// WriteFiles writes every file to a temporary sibling first and only renames
// them into place once all of them were written successfully. Readers never
// observe a partially written artifact.
func WriteFiles(files ...File) error {
	tmps := make([]string, 0, len(files))
	cleanup := func() {
		for _, tmp := range tmps {
			_ = os.Remove(tmp)
		}
	}

	for _, f := range files {
		dir := filepath.Dir(f.Path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			cleanup()
			return fmt.Errorf("create artifact dir: %w", err)
		}

		tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.Path)+".*.tmp")
		if err != nil {
			cleanup()
			return fmt.Errorf("create temp artifact: %w", err)
		}
		tmps = append(tmps, tmp.Name())

		if err := f.Write(tmp); err != nil {
			tmp.Close()
			cleanup()
			return fmt.Errorf("write %s: %w", f.Path, err)
		}
		if err := tmp.Sync(); err != nil {
			tmp.Close()
			cleanup()
			return fmt.Errorf("sync %s: %w", f.Path, err)
		}
		if err := tmp.Close(); err != nil {
			cleanup()
			return fmt.Errorf("close %s: %w", f.Path, err)
		}
	}

	for i, f := range files {
		if err := os.Rename(tmps[i], f.Path); err != nil {
			cleanup()
			return fmt.Errorf("publish %s: %w", f.Path, err)
		}
	}
	return nil
}
