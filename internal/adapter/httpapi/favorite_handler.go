package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/muhammadegaa/easyhome/internal/adapter/httpapi/middleware"
)

func (h *Handler) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.ActorFromContext(r.Context())
	propertyID := chi.URLParam(r, "id")

	favorited, message, err := h.favorites.Toggle(r.Context(), userID, propertyID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.metrics.FavoriteTogglesTotal.Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"isFavorited": favorited,
		"message":     message,
	})
}

func (h *Handler) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.ActorFromContext(r.Context())

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.favorites.ListFavorites(r.Context(), userID, page, limit)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toPropertyListResponse(result))
}
