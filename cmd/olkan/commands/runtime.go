package commands

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/olkan/catalog/internal/catalog"
	"github.com/olkan/catalog/internal/quality"
	"github.com/olkan/catalog/pkg/config"
	"github.com/olkan/catalog/pkg/database"
	"github.com/olkan/catalog/pkg/logger"
	"github.com/olkan/catalog/pkg/redis"
)

// runtime bundles the wired service dependencies shared by commands.
type runtime struct {
	cfg      *config.Config
	log      *logger.Logger
	db       *database.DB // nil unless the postgres backend is active
	redis    *redis.Client
	cache    *redis.Cache
	storage  catalog.Storage
	assessor *quality.Assessor
	reports  *quality.Repository // nil without postgres
}

// newRuntime loads config and wires storage, cache, and the assessor.
// A bad weight table or storage setup aborts here, before any request
// is served.
func newRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	rt := &runtime{cfg: cfg, log: log}

	// Quality weights: built-in defaults unless a YAML table is given.
	weights := quality.DefaultWeights()
	if cfg.Quality.WeightsFile != "" {
		weights, err = quality.LoadWeights(cfg.Quality.WeightsFile)
		if err != nil {
			return nil, fmt.Errorf("load quality weights: %w", err)
		}
		log.WithField("file", cfg.Quality.WeightsFile).Info("Loaded custom quality weights")
	}

	rt.assessor, err = quality.NewAssessorWithWeights(weights)
	if err != nil {
		return nil, fmt.Errorf("create assessor: %w", err)
	}

	// Database pool, only for the postgres backend.
	if cfg.Storage.Backend == "postgres" {
		rt.db, err = database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}

		rt.reports = quality.NewRepository(rt.db.Pool)
		if err := rt.reports.EnsureSchema(ctx); err != nil {
			rt.db.Close()
			return nil, err
		}
	}

	var pool *pgxpool.Pool
	if rt.db != nil {
		pool = rt.db.Pool
	}

	rt.storage, err = catalog.NewStorage(ctx, cfg, pool)
	if err != nil {
		rt.close()
		return nil, fmt.Errorf("create storage: %w", err)
	}

	rt.redis, err = redis.New(cfg)
	if err != nil {
		// Cache is an optimization; a down Redis should not stop the CLI.
		log.WithError(err).Warn("Redis unavailable, continuing without cache")
		rt.redis = nil
	}
	if rt.redis != nil && rt.redis.Enabled() {
		rt.cache = redis.NewCache(rt.redis, "olkan")
	}

	return rt, nil
}

// close releases all held connections
func (rt *runtime) close() {
	if rt.redis != nil {
		_ = rt.redis.Close()
	}
	if closer, ok := rt.storage.(*catalog.SQLiteStorage); ok {
		_ = closer.Close()
	}
	if rt.db != nil {
		rt.db.Close()
	}
}
