// Package diskmanager manages the file handles used by segments. Read handles
// are cached per path so repeated lookups against the same segment reuse one
// descriptor; append handles are exclusive and owned by the caller.
package diskmanager

import (
	"os"
	"strings"
)

// FileHandle abstracts the file operations segments need: random-access reads,
// appends, syncing, and size inspection.
type FileHandle interface {
	// ReadAt reads len(b) bytes starting at byte offset off.
	ReadAt(b []byte, off int64) (int, error)
	// Write appends len(b) bytes at the end of the file.
	Write(b []byte) (int, error)
	// Sync commits the current contents of the file to stable storage.
	Sync() error
	// Close closes the handle, rendering it unusable for I/O.
	Close() error
	// Stat returns the file stat.
	Stat() (os.FileInfo, error)
}

type fileHandle struct {
	file *os.File
}

// NewFileHandle wraps an *os.File into a FileHandle implementation.
func NewFileHandle(file *os.File) FileHandle { return &fileHandle{file: file} }

func (fh *fileHandle) ReadAt(b []byte, off int64) (int, error) { return fh.file.ReadAt(b, off) }

func (fh *fileHandle) Write(b []byte) (int, error) { return fh.file.Write(b) }

func (fh *fileHandle) Sync() error { return fh.file.Sync() }

func (fh *fileHandle) Close() error { return fh.file.Close() }

func (fh *fileHandle) Stat() (os.FileInfo, error) { return fh.file.Stat() }

// Manager hands out file handles for segment files. One Manager is shared by
// all segments of an engine instance.
type Manager struct {
	readers map[string]FileHandle
}

// NewManager creates a Manager with an empty read-handle cache.
func NewManager() *Manager {
	return &Manager{
		readers: make(map[string]FileHandle),
	}
}

// OpenRead returns a read-only handle for path, reusing a cached one if the
// file was read before.
func (m *Manager) OpenRead(path string) (FileHandle, error) {
	if handle, exists := m.readers[path]; exists {
		return handle, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	handle := NewFileHandle(file)
	m.readers[path] = handle
	return handle, nil
}

// OpenAppend opens path for appending, creating it if absent. Append handles
// are not cached; the caller owns the handle and must close it.
func (m *Manager) OpenAppend(path string) (FileHandle, error) {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	return NewFileHandle(file), nil
}

// CloseRead drops the cached read handle for path, if any.
func (m *Manager) CloseRead(path string) error {
	handle, exists := m.readers[path]
	if !exists {
		return nil
	}
	delete(m.readers, path)
	return handle.Close()
}

// List returns the filenames in dir that contain the filter string, in
// directory order. An empty filter matches all files.
func (m *Manager) List(dir string, filter string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if filter == "" || strings.Contains(entry.Name(), filter) {
			files = append(files, entry.Name())
		}
	}
	return files, nil
}

// CloseAll closes every cached read handle, keeping the first error.
func (m *Manager) CloseAll() error {
	var firstErr error
	for path, handle := range m.readers {
		if err := handle.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.readers, path)
	}
	return firstErr
}
