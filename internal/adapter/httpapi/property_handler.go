package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/muhammadegaa/easyhome/internal/adapter/httpapi/middleware"
	"github.com/muhammadegaa/easyhome/internal/domain"
)

func (h *Handler) handleSearchProperties(w http.ResponseWriter, r *http.Request) {
	filter := domain.ParsePropertyFilter(r.URL.Query())
	page, err := h.properties.Search(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyListResponse(page))
}

func (h *Handler) handleListMyProperties(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.ActorFromContext(r.Context())
	filter := domain.ParseOwnerFilter(userID, r.URL.Query())
	page, err := h.properties.ListMine(r.Context(), filter)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyListResponse(page))
}

func (h *Handler) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.ActorFromContext(r.Context())

	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidInput))
		return
	}

	property, err := h.properties.Create(r.Context(), userID, req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.metrics.PropertiesCreatedTotal.Inc()
	writeJSON(w, http.StatusCreated, map[string]interface{}{"property": toPropertyResponse(property)})
}

func (h *Handler) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	property, err := h.properties.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"property": toPropertyResponse(property)})
}

func (h *Handler) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	userID, role := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req propertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidInput))
		return
	}

	property, err := h.properties.Update(r.Context(), userID, role, id, req.toInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.metrics.PropertyUpdatesTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"property": toPropertyResponse(property)})
}

func (h *Handler) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	userID, role := middleware.ActorFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.properties.Delete(r.Context(), userID, role, id); err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.metrics.PropertyDeletesTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Property deleted successfully"})
}
