package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/olkan/catalog/internal/catalog"
	"github.com/olkan/catalog/internal/quality"
	"github.com/olkan/catalog/pkg/logger"
)

// ReportStore persists quality reports. Nil when the deployment has no
// PostgreSQL (sqlite/file backends); assessments then stay in-memory.
type ReportStore interface {
	Save(ctx context.Context, report *quality.Report) error
	GetLatest(ctx context.Context, datasetID string) (*quality.Report, error)
	ListLatest(ctx context.Context, limit int) ([]*quality.Report, error)
}

// ReportCache caches serialized reports. Nil disables caching.
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

const statsReportLimit = 10000

// QualityHandler handles quality assessment API endpoints
type QualityHandler struct {
	assessor *quality.Assessor
	storage  catalog.Storage
	reports  ReportStore
	cache    ReportCache
	cacheTTL time.Duration
	workers  int
	logger   *logger.Logger
}

// NewQualityHandler creates a new quality handler
func NewQualityHandler(
	assessor *quality.Assessor,
	storage catalog.Storage,
	reports ReportStore,
	cache ReportCache,
	cacheTTL time.Duration,
	workers int,
	log *logger.Logger,
) *QualityHandler {
	return &QualityHandler{
		assessor: assessor,
		storage:  storage,
		reports:  reports,
		cache:    cache,
		cacheTTL: cacheTTL,
		workers:  workers,
		logger:   log,
	}
}

func reportCacheKey(datasetID string) string {
	return "quality:report:" + datasetID
}

// GetReport assesses a dataset and returns its quality report
// GET /api/v1/datasets/{id}/quality?context=...
func (h *QualityHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]
	contextText := r.URL.Query().Get("context")

	// Context-free reports are cacheable; a context biases the relevance
	// score, so those always recompute.
	if contextText == "" && h.cache != nil {
		var cached quality.Report
		if found, err := h.cache.Get(ctx, reportCacheKey(id), &cached); err == nil && found {
			respondJSON(w, http.StatusOK, &cached)
			return
		}
	}

	dataset, err := h.storage.Get(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Dataset not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Error("Failed to get dataset")
		respondError(w, http.StatusInternalServerError, "Failed to get dataset")
		return
	}

	report := h.assessor.Assess(dataset.ID, dataset.Metadata(), contextText)

	h.persist(ctx, report)
	if contextText == "" && h.cache != nil {
		if err := h.cache.Set(ctx, reportCacheKey(id), report, h.cacheTTL); err != nil {
			h.logger.WithError(err).WithField("id", id).Warn("Failed to cache report")
		}
	}

	respondJSON(w, http.StatusOK, report)
}

// Stats returns corpus statistics over the latest report per dataset
// GET /api/ai/quality/stats
func (h *QualityHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	reports, err := h.latestReports(ctx)
	if err != nil {
		h.logger.WithError(err).Error("Failed to collect reports for stats")
		respondError(w, http.StatusInternalServerError, "Failed to collect quality reports")
		return
	}

	stats, err := quality.Compare(reports)
	if errors.Is(err, quality.ErrNoReports) {
		respondError(w, http.StatusNotFound, "No quality reports to compare")
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute corpus statistics")
		respondError(w, http.StatusInternalServerError, "Failed to compute corpus statistics")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}

// latestReports loads stored reports, falling back to assessing the
// catalog directly when nothing is persisted yet.
func (h *QualityHandler) latestReports(ctx context.Context) ([]*quality.Report, error) {
	if h.reports != nil {
		reports, err := h.reports.ListLatest(ctx, statsReportLimit)
		if err != nil {
			return nil, err
		}
		if len(reports) > 0 {
			return reports, nil
		}
	}

	items, err := h.batchItems(ctx, 0, statsReportLimit)
	if err != nil {
		return nil, err
	}

	return h.assessor.AssessBatch(ctx, items, "", h.workers)
}

// BatchAssessRequest is the body of a batch assessment request
type BatchAssessRequest struct {
	Context string `json:"context,omitempty"`
	Offset  int    `json:"offset,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// BatchAssess assesses a page of the catalog in one call
// POST /api/ai/quality/assess
func (h *QualityHandler) BatchAssess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BatchAssessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Limit < 1 || req.Limit > statsReportLimit {
		req.Limit = 100
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	items, err := h.batchItems(ctx, req.Offset, req.Limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list datasets for batch assessment")
		respondError(w, http.StatusInternalServerError, "Failed to list datasets")
		return
	}

	reports, err := h.assessor.AssessBatch(ctx, items, req.Context, h.workers)
	if err != nil {
		h.logger.WithError(err).Error("Batch assessment canceled")
		respondError(w, http.StatusInternalServerError, "Batch assessment canceled")
		return
	}

	for _, report := range reports {
		h.persist(ctx, report)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"assessed": len(reports),
		"reports":  reports,
	})
}

// Benchmarks returns the summary tier thresholds
// GET /api/ai/quality/benchmarks
func (h *QualityHandler) Benchmarks(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.assessor.Benchmarks())
}

func (h *QualityHandler) batchItems(ctx context.Context, offset, limit int) ([]quality.BatchItem, error) {
	datasets, err := h.storage.List(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	items := make([]quality.BatchItem, len(datasets))
	for i, d := range datasets {
		items[i] = quality.BatchItem{DatasetID: d.ID, Metadata: d.Metadata()}
	}

	return items, nil
}

func (h *QualityHandler) persist(ctx context.Context, report *quality.Report) {
	if h.reports == nil {
		return
	}
	if err := h.reports.Save(ctx, report); err != nil {
		h.logger.WithError(err).WithField("dataset_id", report.DatasetID).Warn("Failed to persist quality report")
	}
}
