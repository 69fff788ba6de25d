package properties

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Marser321/punta-360-sub001/pkg/logging"
)

const maxMediaUploadBytes = 32 << 20

// Handler serves public listing reads and the admin listing tools.
type Handler struct {
	repo      Repository
	generator *DescriptionGenerator
	media     *MediaStore
	logger    *logging.Logger
}

// NewHandler creates a new properties handler. generator and media may be
// nil; the corresponding admin endpoints answer 503.
func NewHandler(repo Repository, generator *DescriptionGenerator, media *MediaStore, logger *logging.Logger) *Handler {
	return &Handler{
		repo:      repo,
		generator: generator,
		media:     media,
		logger:    logger,
	}
}

// ListPropertiesResponse is the response for listing properties
type ListPropertiesResponse struct {
	Properties []*Property `json:"properties"`
	Count      int         `json:"count"`
	Offset     int         `json:"offset"`
	Limit      int         `json:"limit"`
}

// ListProperties handles GET /properties requests. Only published listings
// are visible here.
func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	filter := ListPropertiesFilter{
		PublishedOnly: true,
		Limit:         50,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	list, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list properties", "error", err)
		http.Error(w, "failed to list properties", http.StatusInternalServerError)
		return
	}

	response := ListPropertiesResponse{
		Properties: list,
		Count:      len(list),
		Offset:     filter.Offset,
		Limit:      filter.Limit,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// GetProperty handles GET /properties/{propertyID} requests
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "propertyID")

	property, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			http.Error(w, "property not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch property", "error", err, "property_id", id)
		http.Error(w, "failed to fetch property", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(property)
}

// CreateProperty handles POST /admin/properties requests
func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	property, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create property", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.logger.Info("property created", "id", property.ID, "title", property.Title)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(property)
}

// GenerateDescription handles POST /admin/properties/{propertyID}/description
// requests: draft listing copy with the LLM and store it on the row.
func (h *Handler) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	if h.generator == nil {
		http.Error(w, "description generation is not configured", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "propertyID")
	property, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			http.Error(w, "property not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to fetch property", "error", err, "property_id", id)
		http.Error(w, "failed to fetch property", http.StatusInternalServerError)
		return
	}

	description, err := h.generator.Generate(r.Context(), property)
	if err != nil {
		h.logger.Error("description generation failed", "error", err, "property_id", id)
		http.Error(w, "description generation failed", http.StatusBadGateway)
		return
	}

	if err := h.repo.UpdateDescription(r.Context(), id, description); err != nil {
		h.logger.Error("failed to store description", "error", err, "property_id", id)
		http.Error(w, "failed to store description", http.StatusInternalServerError)
		return
	}

	h.logger.Info("description generated", "property_id", id)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"description": description})
}

// UploadMedia handles POST /admin/properties/{propertyID}/media requests
// (multipart form, field "file").
func (h *Handler) UploadMedia(w http.ResponseWriter, r *http.Request) {
	if h.media == nil || !h.media.Enabled() {
		http.Error(w, "media storage is not configured", http.StatusServiceUnavailable)
		return
	}

	id := chi.URLParam(r, "propertyID")

	if err := r.ParseMultipartForm(maxMediaUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	url, err := h.media.Upload(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), file)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			http.Error(w, "property not found", http.StatusNotFound)
			return
		}
		h.logger.Error("media upload failed", "error", err, "property_id", id)
		http.Error(w, "media upload failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]string{"url": url})
}
