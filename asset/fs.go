package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FS is the file collaborator used for scenes, scripts and configuration
// Both operations fail with a descriptive error naming the path
type FS interface {
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
}

// OS reads and writes below Root; an empty Root uses paths as given
type OS struct {
	Root string
}

func (o OS) resolve(path string) string {
	if o.Root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(o.Root, path)
}

func (o OS) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(o.resolve(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}
	return data, nil
}

// WriteFile creates parent directories and replaces the file atomically via rename
func (o OS) WriteFile(path string, data []byte) error {
	full := o.resolve(path)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	tmp := full + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	if err := os.Rename(tmp, full); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write %q: %w", path, err)
	}
	return nil
}

// ErrReadOnly is returned by writes to a read-only MemFS
var ErrReadOnly = errors.New("read-only file system")

// MemFS is an in-memory FS for tests and embedded defaults
type MemFS struct {
	mu       sync.RWMutex
	files    map[string][]byte
	readOnly bool
}

func NewMemFS(files map[string][]byte) *MemFS {
	m := &MemFS{files: make(map[string][]byte, len(files))}
	for k, v := range files {
		m.files[filepath.Clean(k)] = append([]byte(nil), v...)
	}
	return m
}

// SetReadOnly makes further writes fail, for exercising save errors
func (m *MemFS) SetReadOnly(ro bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readOnly = ro
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[filepath.Clean(path)]
	if !ok {
		return nil, fmt.Errorf("failed to read %q: %w", path, fs.ErrNotExist)
	}
	return append([]byte(nil), data...), nil
}

func (m *MemFS) WriteFile(path string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readOnly {
		return fmt.Errorf("failed to write %q: %w", path, ErrReadOnly)
	}
	m.files[filepath.Clean(path)] = append([]byte(nil), data...)
	return nil
}

// Paths lists stored files in sorted order
func (m *MemFS) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.files))
	for k := range m.files {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Layered reads from Primary and falls back to Fallback for missing files; writes go to Primary
type Layered struct {
	Primary  FS
	Fallback FS
}

func (l Layered) ReadFile(path string) ([]byte, error) {
	data, err := l.Primary.ReadFile(path)
	if err == nil || l.Fallback == nil || !errors.Is(err, fs.ErrNotExist) {
		return data, err
	}
	if data, ferr := l.Fallback.ReadFile(path); ferr == nil {
		return data, nil
	}
	return nil, err
}

func (l Layered) WriteFile(path string, data []byte) error {
	return l.Primary.WriteFile(path, data)
}
