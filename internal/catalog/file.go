package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// FileStorage keeps one JSON document per dataset in a directory.
// Intended for local development and tests, not concurrent writers.
type FileStorage struct {
	dir string
}

// NewFileStorage creates the backend, creating dir when needed.
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Create stores a new dataset
func (s *FileStorage) Create(_ context.Context, d *Dataset) error {
	now := time.Now().UTC()
	d.CreatedAt = &now
	d.UpdatedAt = &now

	return s.write(d)
}

// Get returns a dataset by id
func (s *FileStorage) Get(_ context.Context, id string) (*Dataset, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}

	d := &Dataset{}
	if err := json.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	return d, nil
}

// List returns datasets ordered by id
func (s *FileStorage) List(ctx context.Context, offset, limit int) ([]*Dataset, error) {
	entries, err := filepath.Glob(filepath.Join(s.dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	sort.Strings(entries)

	var datasets []*Dataset
	for _, entry := range entries {
		if len(datasets) >= limit {
			break
		}
		if offset > 0 {
			offset--
			continue
		}

		id := filepath.Base(entry)
		id = id[:len(id)-len(".json")]

		d, err := s.Get(ctx, id)
		if err != nil {
			// Skip unreadable entries, matching lenient list semantics.
			continue
		}
		datasets = append(datasets, d)
	}

	return datasets, nil
}

// Update replaces an existing dataset
func (s *FileStorage) Update(ctx context.Context, d *Dataset) error {
	existing, err := s.Get(ctx, d.ID)
	if err != nil {
		return err
	}

	d.CreatedAt = existing.CreatedAt
	now := time.Now().UTC()
	d.UpdatedAt = &now

	return s.write(d)
}

// Delete removes a dataset by id
func (s *FileStorage) Delete(_ context.Context, id string) error {
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	return nil
}

func (s *FileStorage) write(d *Dataset) error {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	if err := os.WriteFile(s.path(d.ID), data, 0o644); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	return nil
}
