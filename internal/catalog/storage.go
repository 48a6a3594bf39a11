package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olkan/catalog/pkg/config"
)

// Storage is the dataset persistence contract. The quality engine only
// ever reads through it; writes come from the API layer.
type Storage interface {
	// Create stores a new dataset and stamps its timestamps.
	Create(ctx context.Context, d *Dataset) error

	// Get returns the dataset with the given id, ErrNotFound when absent.
	Get(ctx context.Context, id string) (*Dataset, error)

	// List returns datasets ordered by id, honoring offset/limit.
	List(ctx context.Context, offset, limit int) ([]*Dataset, error)

	// Update replaces an existing dataset and refreshes updated_at.
	Update(ctx context.Context, d *Dataset) error

	// Delete removes a dataset, ErrNotFound when absent.
	Delete(ctx context.Context, id string) error
}

// NewStorage builds the backend selected by config.
func NewStorage(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (Storage, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		return NewPostgresStorage(ctx, pool)
	case "sqlite":
		return NewSQLiteStorage(cfg.Storage.SQLitePath)
	case "file":
		return NewFileStorage(cfg.Storage.FileDir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Storage.Backend)
	}
}
