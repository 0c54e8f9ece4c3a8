package types

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
)

// FileEntry holds the filesystem facts a rule can be evaluated against.
// Entries are read fresh from the filesystem on every run and never cached.
type FileEntry struct {
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// NewFileEntry builds a FileEntry from a path and its fs.FileInfo.
func NewFileEntry(path string, info fs.FileInfo) FileEntry {
	return FileEntry{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}
}

// Name returns the base name of the file
func (f FileEntry) Name() string {
	return filepath.Base(f.Path)
}

// Ext returns the file extension including the leading dot
func (f FileEntry) Ext() string {
	return filepath.Ext(f.Path)
}

// HumanSize returns the size formatted for display (e.g. "50 MB")
func (f FileEntry) HumanSize() string {
	return humanize.Bytes(uint64(f.Size))
}
