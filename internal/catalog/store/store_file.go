package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"shopfront/internal/catalog/models"
	id "shopfront/pkg/domain"
)

// FileStore keeps one human-diffable JSON document per namespace under a
// data directory. It is the canonical backend: the on-disk schema is part
// of the external interface and must stay reviewable with a plain diff.
type FileStore struct {
	dir string
}

// NewFileStore creates the data directory if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("catalog data directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create catalog dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(ns id.Namespace) string {
	return filepath.Join(s.dir, string(ns)+"_inventory.json")
}

// Load reads the namespace document, materializing an empty one on first
// access so a fresh namespace behaves like an empty catalog.
func (s *FileStore) Load(_ context.Context, ns id.Namespace) (models.Snapshot, error) {
	path := s.path(ns)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		empty := models.Snapshot{}
		if err := s.write(path, empty); err != nil {
			return nil, err
		}
		return empty, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", ns, err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", ns, err)
	}
	if snap == nil {
		snap = models.Snapshot{}
	}
	return snap, nil
}

// Save overwrites the namespace document with the full snapshot.
func (s *FileStore) Save(_ context.Context, ns id.Namespace, snap models.Snapshot) error {
	return s.write(s.path(ns), snap)
}

// write lands the document via a temp file and rename so concurrent
// readers never observe a partially written snapshot.
func (s *FileStore) write(path string, snap models.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, ".catalog-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp catalog file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write catalog: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close catalog file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace catalog file: %w", err)
	}
	return nil
}
