package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/starford/dagaz/internal/models"
)

// File implements Provider backed by one JSON document on the local file
// system, the single-user analog of a browser's key-value store.
type File struct {
	path string // absolute path to the journal file
}

// NewFile creates a provider for the journal at path. The parent directory
// is created if needed; the file itself may not exist yet.
func NewFile(path string) (*File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, fmt.Errorf("storage: create journal dir: %w", err)
	}
	return &File{path: abs}, nil
}

// Path returns the absolute journal file location.
func (f *File) Path() string {
	return f.path
}

// Load reads the full collection. A missing file and undecodable JSON both
// load as an empty collection; individual records with bad fields decode to
// zero values and are filtered per-aggregate downstream, not here.
func (f *File) Load() ([]models.Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []models.Entry{}, nil
		}
		return nil, fmt.Errorf("storage: read journal: %w", err)
	}
	var entries []models.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return []models.Entry{}, nil
	}
	if entries == nil {
		entries = []models.Entry{}
	}
	return entries, nil
}

// Save atomically replaces the collection: tmp file → fsync → rename.
func (f *File) Save(entries []models.Entry) error {
	if entries == nil {
		entries = []models.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("storage: encode journal: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".dagaz-tmp-*")
	if err != nil {
		return fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return nil
}

// Backup copies the journal to dst. A missing journal is not an error; the
// backup loop simply has nothing to snapshot yet.
func (f *File) Backup(dst string) error {
	src, err := os.Open(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("storage: open journal: %w", err)
	}
	defer src.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), ".dagaz-bak-*")
	if err != nil {
		return fmt.Errorf("storage: create backup temp: %w", err)
	}
	tmpName := out.Name()
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: copy backup: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: close backup: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage: rename backup: %w", err)
	}
	return nil
}
