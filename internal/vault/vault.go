// Package vault defines the document-store abstraction the library consumes:
// file handles, the narrow Store capability, and fold-state round-tripping.
package vault

import (
	"path"
	"strings"
)

// NoteExtension is the only file extension that participates in the index.
const NoteExtension = "md"

// File identifies a document in the store. Paths are always relative to the
// store root and use forward slashes.
type File struct {
	Path      string
	Basename  string // final path segment with the extension stripped
	Extension string // extension without the leading dot
}

// NewFile derives a handle from a store-relative path.
func NewFile(p string) File {
	base := path.Base(p)
	ext := ""
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		ext = base[i+1:]
		base = base[:i]
	}
	return File{Path: p, Basename: base, Extension: ext}
}

// IsNote reports whether the file carries the note extension.
func (f File) IsNote() bool {
	return f.Extension == NoteExtension
}

// Store is the capability the host document store provides.
type Store interface {
	// List returns handles for every file under dir, recursively.
	// dir is store-relative; empty means the store root.
	List(dir string) ([]File, error)
	// Read returns the whole content of the file at path.
	Read(path string) ([]byte, error)
	// Create writes a new file at path with the given content. It fails
	// with apperr.ErrAlreadyExists when the path is occupied and with an
	// error when the parent folder is missing.
	Create(path string, content []byte) (File, error)
	// CreateFolder creates a single folder. It fails with
	// apperr.ErrAlreadyExists when the folder is present, so callers
	// check Exists first.
	CreateFolder(path string) error
	// Exists reports whether a file or folder is present at path.
	Exists(path string) bool
}
