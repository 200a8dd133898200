// Package file stores the catalog as a JSON document on the local filesystem.
package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/davidbz/costsheet/internal/domain"
	"github.com/davidbz/costsheet/internal/observability"
)

const (
	defaultDebounce = 100 * time.Millisecond
	filePerm        = 0o644
	dirPerm         = 0o755
)

// Store is a file-backed domain.CatalogStore.
//
// Saves are serialized and written to a temporary file in the target
// directory, synced and renamed over the catalog, so readers see either the
// old or the new document. Reads take no lock. While Watch runs, reads are
// served from an in-memory snapshot that filesystem events invalidate.
type Store struct {
	path     string
	debounce time.Duration

	saveMu sync.Mutex

	snapMu   sync.RWMutex
	watching bool
	snapshot []byte
}

// Option configures a Store.
type Option func(*Store)

// WithDebounce sets the quiet period after a filesystem event before the
// snapshot is dropped.
func WithDebounce(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.debounce = d
		}
	}
}

// New creates a store for the catalog file at path.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:     filepath.Clean(path),
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the catalog file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the catalog file.
func (s *Store) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.snapMu.RLock()
	if s.watching && s.snapshot != nil {
		data := append([]byte(nil), s.snapshot...)
		s.snapMu.RUnlock()
		return data, nil
	}
	s.snapMu.RUnlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", domain.ErrStoreUnavailable, s.path)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	s.remember(data)

	return data, nil
}

// Save atomically replaces the catalog file. Concurrent saves are applied one
// at a time; the last one wins.
func (s *Store) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create catalog directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := writeAndSync(tmp, data); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to commit catalog file: %w", err)
	}

	s.remember(data)

	observability.FromContext(ctx).Debug("catalog file written",
		observability.String("path", s.path),
		observability.Int("bytes", len(data)))

	return nil
}

func writeAndSync(f *os.File, data []byte) error {
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write catalog file: %w", err)
	}

	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync catalog file: %w", err)
	}

	if err := f.Chmod(filePerm); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to set catalog file mode: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close catalog file: %w", err)
	}

	return nil
}

func (s *Store) remember(data []byte) {
	s.snapMu.Lock()
	if s.watching {
		s.snapshot = append([]byte(nil), data...)
	}
	s.snapMu.Unlock()
}

func (s *Store) invalidate() {
	s.snapMu.Lock()
	s.snapshot = nil
	s.snapMu.Unlock()
}

func (s *Store) setWatching(on bool) {
	s.snapMu.Lock()
	s.watching = on
	s.snapshot = nil
	s.snapMu.Unlock()
}

// Watching reports whether Watch is running.
func (s *Store) Watching() bool {
	s.snapMu.RLock()
	defer s.snapMu.RUnlock()
	return s.watching
}
