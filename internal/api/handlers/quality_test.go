package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olkan/catalog/internal/catalog"
	"github.com/olkan/catalog/internal/quality"
)

// fakeCache is an in-memory ReportCache.
type fakeCache struct {
	entries map[string][]byte
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (c *fakeCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	data, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(data, dest)
}

func (c *fakeCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = data
	return nil
}

func (c *fakeCache) Delete(_ context.Context, key string) error {
	delete(c.entries, key)
	return nil
}

func TestQualityHandler_GetReport(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/datasets", map[string]interface{}{
		"id":          "climate-obs",
		"title":       "Global Climate Data",
		"description": "A long running research series of climate observations collected from coastal stations around the world since nineteen eighty.",
		"tags":        []string{"climate", "data", "research"},
		"owner_org":   "NOAA",
		"license_id":  "CC-BY-4.0",
	})

	rec := doJSON(t, router, http.MethodGet, "/api/v1/datasets/climate-obs/quality", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var report quality.Report
	decodeBody(t, rec, &report)

	assert.Equal(t, "climate-obs", report.DatasetID)
	assert.Equal(t, quality.Version, report.AssessorVersion)
	assert.Len(t, report.MetricScores, 4)
	assert.Greater(t, report.OverallScore, 0.8)
	assert.NotEmpty(t, report.Summary)
}

func TestQualityHandler_GetReportWithContext(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/datasets", map[string]interface{}{
		"id":    "ocean-temps",
		"title": "Ocean Data",
	})

	plain := doJSON(t, router, http.MethodGet, "/api/v1/datasets/ocean-temps/quality", nil)
	biased := doJSON(t, router, http.MethodGet, "/api/v1/datasets/ocean-temps/quality?context=ocean", nil)

	var plainReport, biasedReport quality.Report
	decodeBody(t, plain, &plainReport)
	decodeBody(t, biased, &biasedReport)

	// The context matches the title, raising the relevance score.
	assert.Greater(t, biasedReport.OverallScore, plainReport.OverallScore)
}

func TestQualityHandler_GetReportNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/datasets/absent/quality", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQualityHandler_StatsEmptyCatalog(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/ai/quality/stats", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQualityHandler_Stats(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/datasets", map[string]interface{}{"id": "ds-a", "title": "First Dataset"})
	doJSON(t, router, http.MethodPost, "/api/v1/datasets", map[string]interface{}{"id": "ds-b", "title": "Second Dataset"})

	rec := doJSON(t, router, http.MethodGet, "/api/ai/quality/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats quality.CorpusStats
	decodeBody(t, rec, &stats)

	assert.Equal(t, 2, stats.TotalDatasets)
	assert.GreaterOrEqual(t, stats.MaxScore, stats.MinScore)
	total := stats.ScoreDistribution.Excellent + stats.ScoreDistribution.Good +
		stats.ScoreDistribution.Fair + stats.ScoreDistribution.Poor
	assert.Equal(t, 2, total)
}

func TestQualityHandler_BatchAssess(t *testing.T) {
	router, _ := newTestRouter(t)

	doJSON(t, router, http.MethodPost, "/api/v1/datasets", map[string]interface{}{"id": "ds-a", "title": "First Dataset"})
	doJSON(t, router, http.MethodPost, "/api/v1/datasets", map[string]interface{}{"id": "ds-b", "title": "Second Dataset"})
	doJSON(t, router, http.MethodPost, "/api/v1/datasets", map[string]interface{}{"id": "ds-c", "title": "Third Dataset"})

	t.Run("whole catalog", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/ai/quality/assess", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Assessed int               `json:"assessed"`
			Reports  []*quality.Report `json:"reports"`
		}
		decodeBody(t, rec, &resp)

		assert.Equal(t, 3, resp.Assessed)
		require.Len(t, resp.Reports, 3)
		assert.Equal(t, "ds-a", resp.Reports[0].DatasetID)
	})

	t.Run("paged", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/ai/quality/assess", map[string]interface{}{
			"offset": 1,
			"limit":  1,
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Assessed int               `json:"assessed"`
			Reports  []*quality.Report `json:"reports"`
		}
		decodeBody(t, rec, &resp)

		assert.Equal(t, 1, resp.Assessed)
		require.Len(t, resp.Reports, 1)
		assert.Equal(t, "ds-b", resp.Reports[0].DatasetID)
	})

	t.Run("shared context", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/ai/quality/assess", map[string]interface{}{
			"context": "dataset",
		})
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Reports []*quality.Report `json:"reports"`
		}
		decodeBody(t, rec, &resp)

		for _, report := range resp.Reports {
			relevance := report.MetricScores[3]
			assert.Equal(t, quality.MetricRelevance, relevance.Metric)
			assert.Equal(t, float64(1), relevance.Details["context_matches"])
		}
	})
}

func TestQualityHandler_ReportCaching(t *testing.T) {
	storage, err := catalog.NewFileStorage(t.TempDir())
	require.NoError(t, err)

	cache := newFakeCache()
	log := testLogger()
	datasets := NewDatasetHandler(storage, cache, log)
	reports := NewQualityHandler(quality.NewAssessor(), storage, nil, cache, time.Minute, 4, log)

	router := mux.NewRouter()
	router.HandleFunc("/api/v1/datasets", datasets.Create).Methods("POST")
	router.HandleFunc("/api/v1/datasets/{id}", datasets.Update).Methods("PUT")
	router.HandleFunc("/api/v1/datasets/{id}/quality", reports.GetReport).Methods("GET")

	doJSON(t, router, http.MethodPost, "/api/v1/datasets", map[string]interface{}{
		"id":    "cached-ds",
		"title": "Cache Me",
	})

	first := doJSON(t, router, http.MethodGet, "/api/v1/datasets/cached-ds/quality", nil)
	require.Equal(t, http.StatusOK, first.Code)
	assert.Zero(t, cache.hits)
	assert.Len(t, cache.entries, 1)

	second := doJSON(t, router, http.MethodGet, "/api/v1/datasets/cached-ds/quality", nil)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, 1, cache.hits)

	t.Run("context bypasses the cache", func(t *testing.T) {
		before := cache.hits
		rec := doJSON(t, router, http.MethodGet, "/api/v1/datasets/cached-ds/quality?context=anything", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, before, cache.hits)
	})

	t.Run("update invalidates the cached report", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPut, "/api/v1/datasets/cached-ds", map[string]interface{}{
			"title": "Cache Me Again",
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, cache.entries)
	})
}

func TestQualityHandler_Benchmarks(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/ai/quality/benchmarks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var benchmarks map[string]float64
	decodeBody(t, rec, &benchmarks)
	assert.Equal(t, map[string]float64{
		"excellent": 0.9,
		"good":      0.7,
		"fair":      0.5,
		"poor":      0.0,
	}, benchmarks)
}
