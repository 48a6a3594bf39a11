package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/olkan/catalog/internal/catalog"
	"github.com/olkan/catalog/internal/quality"
	"github.com/olkan/catalog/pkg/logger"
	"github.com/olkan/catalog/pkg/redis"
)

const reassessPageSize = 200

// ReassessJob walks the catalog and refreshes every dataset's quality
// report. Scores drift as metadata is edited outside the API (bulk
// imports, harvesters), so reports are recomputed on a schedule.
type ReassessJob struct {
	storage  catalog.Storage
	assessor *quality.Assessor
	reports  *quality.Repository
	cache    *redis.Cache
	cacheTTL time.Duration
	workers  int
	schedule string
	logger   *logger.Logger
}

// NewReassessJob creates the re-assessment job. reports and cache may be
// nil when the deployment has no PostgreSQL or Redis.
func NewReassessJob(
	storage catalog.Storage,
	assessor *quality.Assessor,
	reports *quality.Repository,
	cache *redis.Cache,
	cacheTTL time.Duration,
	workers int,
	schedule string,
	log *logger.Logger,
) *ReassessJob {
	return &ReassessJob{
		storage:  storage,
		assessor: assessor,
		reports:  reports,
		cache:    cache,
		cacheTTL: cacheTTL,
		workers:  workers,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *ReassessJob) Name() string {
	return "quality-reassess"
}

// Schedule returns the cron schedule expression
func (j *ReassessJob) Schedule() string {
	return j.schedule
}

// Run assesses the whole catalog page by page
func (j *ReassessJob) Run(ctx context.Context) error {
	offset := 0
	total := 0

	for {
		datasets, err := j.storage.List(ctx, offset, reassessPageSize)
		if err != nil {
			return fmt.Errorf("list datasets: %w", err)
		}
		if len(datasets) == 0 {
			break
		}

		items := make([]quality.BatchItem, len(datasets))
		for i, d := range datasets {
			items[i] = quality.BatchItem{DatasetID: d.ID, Metadata: d.Metadata()}
		}

		reports, err := j.assessor.AssessBatch(ctx, items, "", j.workers)
		if err != nil {
			return fmt.Errorf("assess batch at offset %d: %w", offset, err)
		}

		for _, report := range reports {
			if j.reports != nil {
				if err := j.reports.Save(ctx, report); err != nil {
					return fmt.Errorf("save report for %s: %w", report.DatasetID, err)
				}
			}
			if j.cache != nil {
				key := "quality:report:" + report.DatasetID
				if err := j.cache.Set(ctx, key, report, j.cacheTTL); err != nil {
					j.logger.WithError(err).WithField("dataset_id", report.DatasetID).Warn("Failed to refresh report cache")
				}
			}
		}

		total += len(datasets)
		offset += reassessPageSize
	}

	j.logger.WithField("datasets", total).Info("Catalog re-assessment finished")
	return nil
}
