package vault

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/starford/jera/internal/apperr"
)

// FS implements Store backed by the local file system.
type FS struct {
	root string // absolute path to the store root
}

// NewFS creates an FS store rooted at the given directory, which must
// already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("vault: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute store root.
func (f *FS) Root() string { return f.root }

// safePath resolves a relative path against the store root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("vault: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("vault: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("vault: path escapes store root: %s", rel)
	}
	return abs, nil
}

// List walks dir (relative to root) and returns a handle for every file.
func (f *FS) List(dir string) ([]File, error) {
	base, err := f.safePath(dir)
	if err != nil {
		return nil, err
	}
	var out []File
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(f.root, p)
		if relErr != nil {
			return relErr
		}
		out = append(out, NewFile(filepath.ToSlash(rel)))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("vault: list %q: %w", dir, err)
	}
	return out, nil
}

// Read returns the raw bytes of a store file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("vault: read %s: %w", path, err)
	}
	return data, nil
}

// Create writes a new file, refusing to overwrite an existing one. The
// parent folder must already exist.
func (f *FS) Create(path string, content []byte) (File, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return File{}, err
	}
	fh, err := os.OpenFile(abs, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return File{}, fmt.Errorf("vault: create %s: %w", path, apperr.ErrAlreadyExists)
		}
		return File{}, fmt.Errorf("vault: create %s: %w", path, err)
	}
	if _, err := fh.Write(content); err != nil {
		fh.Close()
		os.Remove(abs)
		return File{}, fmt.Errorf("vault: write %s: %w", path, err)
	}
	if err := fh.Close(); err != nil {
		return File{}, fmt.Errorf("vault: close %s: %w", path, err)
	}
	return NewFile(path), nil
}

// CreateFolder creates a single folder level.
func (f *FS) CreateFolder(path string) error {
	abs, err := f.safePath(path)
	if err != nil {
		return err
	}
	if err := os.Mkdir(abs, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("vault: create folder %s: %w", path, apperr.ErrAlreadyExists)
		}
		return fmt.Errorf("vault: create folder %s: %w", path, err)
	}
	return nil
}

// Exists reports whether path names a file or folder in the store.
func (f *FS) Exists(path string) bool {
	abs, err := f.safePath(path)
	if err != nil {
		return false
	}
	_, err = os.Stat(abs)
	return err == nil
}

// Verify *FS satisfies Store at compile time.
var _ Store = (*FS)(nil)
