package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStorage is the primary dataset backend.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage creates the backend and ensures its schema.
func NewPostgresStorage(ctx context.Context, pool *pgxpool.Pool) (*PostgresStorage, error) {
	s := &PostgresStorage{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *PostgresStorage) ensureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS datasets (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			tags TEXT[] NOT NULL DEFAULT '{}',
			owner_org TEXT NOT NULL DEFAULT '',
			license_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := s.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("ensure datasets schema: %w", err)
	}

	return nil
}

// Create stores a new dataset
func (s *PostgresStorage) Create(ctx context.Context, d *Dataset) error {
	now := time.Now().UTC()
	d.CreatedAt = &now
	d.UpdatedAt = &now

	query := `
		INSERT INTO datasets (id, title, description, tags, owner_org, license_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		d.ID, d.Title, d.Description, d.Tags, d.OwnerOrg, d.LicenseID, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create dataset: %w", err)
	}

	return nil
}

// Get returns a dataset by id
func (s *PostgresStorage) Get(ctx context.Context, id string) (*Dataset, error) {
	query := `
		SELECT id, title, description, tags, owner_org, license_id, created_at, updated_at
		FROM datasets
		WHERE id = $1
	`

	d := &Dataset{}
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.Title, &d.Description, &d.Tags, &d.OwnerOrg, &d.LicenseID, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get dataset: %w", err)
	}

	return d, nil
}

// List returns datasets ordered by id
func (s *PostgresStorage) List(ctx context.Context, offset, limit int) ([]*Dataset, error) {
	query := `
		SELECT id, title, description, tags, owner_org, license_id, created_at, updated_at
		FROM datasets
		ORDER BY id
		OFFSET $1 LIMIT $2
	`

	rows, err := s.pool.Query(ctx, query, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	defer rows.Close()

	var datasets []*Dataset
	for rows.Next() {
		d := &Dataset{}
		if err := rows.Scan(
			&d.ID, &d.Title, &d.Description, &d.Tags, &d.OwnerOrg, &d.LicenseID, &d.CreatedAt, &d.UpdatedAt); err != nil {
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
func (s *PostgresStorage) Update(ctx context.Context, d *Dataset) error {
	now := time.Now().UTC()
	d.UpdatedAt = &now

	query := `
		UPDATE datasets
		SET title = $2, description = $3, tags = $4, owner_org = $5, license_id = $6, updated_at = $7
		WHERE id = $1
	`

	tag, err := s.pool.Exec(ctx, query,
		d.ID, d.Title, d.Description, d.Tags, d.OwnerOrg, d.LicenseID, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update dataset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a dataset by id
func (s *PostgresStorage) Delete(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete dataset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
