package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/olkan/catalog/internal/catalog"
	"github.com/olkan/catalog/pkg/logger"
)

// DatasetHandler handles dataset CRUD API endpoints
type DatasetHandler struct {
	storage catalog.Storage
	cache   ReportCache
	logger  *logger.Logger
}

// NewDatasetHandler creates a new dataset handler
func NewDatasetHandler(storage catalog.Storage, cache ReportCache, log *logger.Logger) *DatasetHandler {
	return &DatasetHandler{
		storage: storage,
		cache:   cache,
		logger:  log,
	}
}

// Create stores a new dataset
// POST /api/v1/datasets
func (h *DatasetHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var d catalog.Dataset
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if d.ID == "" {
		d.ID = catalog.NewID()
	}
	if err := catalog.ValidateID(d.ID); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if d.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	if err := h.storage.Create(ctx, &d); err != nil {
		h.logger.WithError(err).WithField("id", d.ID).Error("Failed to create dataset")
		respondError(w, http.StatusInternalServerError, "Failed to create dataset")
		return
	}

	respondJSON(w, http.StatusCreated, &d)
}

// List returns datasets with pagination
// GET /api/v1/datasets?offset=0&limit=100
func (h *DatasetHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	offset := queryInt(r, "offset", 0)
	limit := queryInt(r, "limit", 100)
	if limit < 1 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	datasets, err := h.storage.List(ctx, offset, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list datasets")
		respondError(w, http.StatusInternalServerError, "Failed to list datasets")
		return
	}

	if datasets == nil {
		datasets = []*catalog.Dataset{}
	}

	respondJSON(w, http.StatusOK, datasets)
}

// Get returns a single dataset
// GET /api/v1/datasets/{id}
func (h *DatasetHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	d, err := h.storage.Get(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Dataset not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Error("Failed to get dataset")
		respondError(w, http.StatusInternalServerError, "Failed to get dataset")
		return
	}

	respondJSON(w, http.StatusOK, d)
}

// Update replaces an existing dataset
// PUT /api/v1/datasets/{id}
func (h *DatasetHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	var d catalog.Dataset
	if err := json.NewDecoder(r.Body).Decode(&d); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	d.ID = id

	err := h.storage.Update(ctx, &d)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Dataset not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Error("Failed to update dataset")
		respondError(w, http.StatusInternalServerError, "Failed to update dataset")
		return
	}

	// The stored metadata changed, so any cached report is stale.
	h.invalidateReport(r, id)

	respondJSON(w, http.StatusOK, &d)
}

// Delete removes a dataset
// DELETE /api/v1/datasets/{id}
func (h *DatasetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	err := h.storage.Delete(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		respondError(w, http.StatusNotFound, "Dataset not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("id", id).Error("Failed to delete dataset")
		respondError(w, http.StatusInternalServerError, "Failed to delete dataset")
		return
	}

	h.invalidateReport(r, id)

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted", "id": id})
}

func (h *DatasetHandler) invalidateReport(r *http.Request, id string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Delete(r.Context(), reportCacheKey(id)); err != nil {
		h.logger.WithError(err).WithField("id", id).Warn("Failed to invalidate report cache")
	}
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	valueStr := r.URL.Query().Get(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
