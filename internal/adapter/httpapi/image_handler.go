package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/muhammadegaa/easyhome/internal/adapter/httpapi/middleware"
	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/usecase"
)

// maxUploadBytes bounds one multipart upload request.
const maxUploadBytes = 32 << 20 // 32 MiB

func (h *Handler) handleUploadImages(w http.ResponseWriter, r *http.Request) {
	userID, role := middleware.ActorFromContext(r.Context())
	propertyID := chi.URLParam(r, "id")

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: malformed multipart form", domain.ErrInvalidInput))
		return
	}

	fileHeaders := r.MultipartForm.File["images"]
	if len(fileHeaders) == 0 {
		// Single-file clients use the "image" field.
		fileHeaders = r.MultipartForm.File["image"]
	}

	captions := r.MultipartForm.Value["captions"]
	category := r.FormValue("category")

	files := make([]usecase.UploadFile, 0, len(fileHeaders))
	for i, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			writeError(w, h.logger, fmt.Errorf("%w: cannot read uploaded file %q", domain.ErrInvalidInput, fh.Filename))
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, h.logger, fmt.Errorf("%w: cannot read uploaded file %q", domain.ErrInvalidInput, fh.Filename))
			return
		}

		caption := ""
		if i < len(captions) {
			caption = captions[i]
		}
		files = append(files, usecase.UploadFile{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
			Caption:     caption,
		})
	}

	images, err := h.images.Upload(r.Context(), userID, role, propertyID, files, category)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.metrics.ImageUploadsTotal.Add(float64(len(images)))
	writeJSON(w, http.StatusCreated, map[string]interface{}{"images": toImageResponses(images)})
}

func (h *Handler) handleListImages(w http.ResponseWriter, r *http.Request) {
	propertyID := chi.URLParam(r, "id")
	images, err := h.images.List(r.Context(), propertyID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"images": toImageResponses(images)})
}

func (h *Handler) handleReorderImages(w http.ResponseWriter, r *http.Request) {
	userID, role := middleware.ActorFromContext(r.Context())
	propertyID := chi.URLParam(r, "id")

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidInput))
		return
	}

	orders := make([]domain.ImageOrder, len(req.Images))
	for i, entry := range req.Images {
		orders[i] = domain.ImageOrder{ImageID: entry.ID, Order: entry.Order}
	}

	if err := h.images.Reorder(r.Context(), userID, role, propertyID, orders); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Images reordered successfully"})
}

func (h *Handler) handleUpdateImage(w http.ResponseWriter, r *http.Request) {
	userID, role := middleware.ActorFromContext(r.Context())
	imageID := chi.URLParam(r, "id")

	var req updateImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidInput))
		return
	}

	image, err := h.images.UpdateImage(r.Context(), userID, role, imageID, usecase.UpdateImageInput{
		Caption:  req.Caption,
		Category: req.Category,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"image": toImageResponse(image)})
}

func (h *Handler) handleDeleteImage(w http.ResponseWriter, r *http.Request) {
	userID, role := middleware.ActorFromContext(r.Context())
	imageID := chi.URLParam(r, "id")

	if err := h.images.Delete(r.Context(), userID, role, imageID); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Image deleted successfully"})
}
