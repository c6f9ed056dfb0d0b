package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/muhammadegaa/easyhome/internal/domain"
	"github.com/muhammadegaa/easyhome/internal/platform/logger"
	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// writeError maps domain sentinel errors onto HTTP statuses. Anything
// unrecognized becomes a 500 without leaking internal detail.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	var status int
	message := err.Error()

	switch {
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrAlreadyVerified):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrEmailTaken):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
		message = "internal server error"
		log.Error("Unhandled error in HTTP handler", zap.Error(err))
	}

	writeJSON(w, status, map[string]string{"error": message})
}
