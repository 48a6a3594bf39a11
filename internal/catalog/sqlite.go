package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteStorage is an embedded dataset backend for single-node
// deployments and tests. Tags and timestamps are stored as JSON/RFC3339
// text since SQLite has no array or timezone-aware types.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database at path.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	query := `
		CREATE TABLE IF NOT EXISTS datasets (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '[]',
			owner_org TEXT NOT NULL DEFAULT '',
			license_id TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)
	`
	if _, err := db.Exec(query); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure datasets schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the underlying database handle
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// Create stores a new dataset
func (s *SQLiteStorage) Create(ctx context.Context, d *Dataset) error {
	now := time.Now().UTC()
	d.CreatedAt = &now
	d.UpdatedAt = &now

	tags, err := json.Marshal(d.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO datasets (id, title, description, tags, owner_org, license_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Title, d.Description, string(tags), d.OwnerOrg, d.LicenseID,
		now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}

	return nil
}

// Get returns a dataset by id
func (s *SQLiteStorage) Get(ctx context.Context, id string) (*Dataset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, title, description, tags, owner_org, license_id, created_at, updated_at
		FROM datasets WHERE id = ?`, id)

	d, err := scanSQLiteDataset(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}

	return d, nil
}

// List returns datasets ordered by id
func (s *SQLiteStorage) List(ctx context.Context, offset, limit int) ([]*Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, tags, owner_org, license_id, created_at, updated_at
		FROM datasets ORDER BY id LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []*Dataset
	for rows.Next() {
		d, err := scanSQLiteDataset(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan dataset: %w", err)
		}
		datasets = append(datasets, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}

	return datasets, nil
}

// Update replaces an existing dataset
func (s *SQLiteStorage) Update(ctx context.Context, d *Dataset) error {
	now := time.Now().UTC()
	d.UpdatedAt = &now

	tags, err := json.Marshal(d.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE datasets
		SET title = ?, description = ?, tags = ?, owner_org = ?, license_id = ?, updated_at = ?
		WHERE id = ?`,
		d.Title, d.Description, string(tags), d.OwnerOrg, d.LicenseID,
		now.Format(time.RFC3339Nano), d.ID)
	if err != nil {
		return fmt.Errorf("update dataset: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update dataset: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a dataset by id
func (s *SQLiteStorage) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

func scanSQLiteDataset(scan func(dest ...interface{}) error) (*Dataset, error) {
	d := &Dataset{}
	var tags, createdAt, updatedAt string

	if err := scan(&d.ID, &d.Title, &d.Description, &tags, &d.OwnerOrg, &d.LicenseID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &d.Tags); err != nil {
		return nil, fmt.Errorf("unmarshal tags: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		d.CreatedAt = &t
	}
	if t, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
		d.UpdatedAt = &t
	}

	return d, nil
}
