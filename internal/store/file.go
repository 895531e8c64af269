package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend is a [MemoryBackend] persisted to a single JSON object on disk.
//
// The file has the shape of a local storage dump (see [Dump]) so it can be exchanged with [Store.Import].
// Every committed update rewrites the file through a temporary sibling and a rename.
type FileBackend struct {
	*MemoryBackend
	path string
}

var _ Backend = (*FileBackend)(nil)

// NewFileBackend loads path, or starts empty when it does not exist yet.
func NewFileBackend(path string) (*FileBackend, error) {
	mem := NewMemoryBackend()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read store file: %w", err)
	default:
		dump, err := ParseDump(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse store file %s: %w", path, err)
		}
		for k, v := range dump {
			mem.data[k] = []byte(v)
		}
	}

	fb := &FileBackend{MemoryBackend: mem, path: path}
	mem.commit = fb.write
	return fb, nil
}

// Path returns the file the backend persists to.
func (f *FileBackend) Path() string { return f.path }

func (f *FileBackend) write(state map[string][]byte) error {
	dump := make(Dump, len(state))
	for k, v := range state {
		dump[k] = string(v)
	}
	data, err := dump.Encode()
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write store file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync store file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close store file: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return fmt.Errorf("failed to set store file mode: %w", err)
	}

	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("failed to replace store file: %w", err)
	}
	return nil
}
