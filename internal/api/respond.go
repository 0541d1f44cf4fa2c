package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/apex-athletics/storefront/internal/apperr"
)

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"message": message})
}

// respondWithAppError maps the error taxonomy onto status codes. Only the
// taxonomy's user-facing message ever reaches the client; anything outside
// the taxonomy becomes a generic 500.
func (h *Handler) respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		h.logger.WithError(err).Error("Unclassified error reached the API boundary")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Kind {
	case apperr.KindValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperr.KindNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperr.KindConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperr.KindAuth:
		respondWithError(w, http.StatusUnauthorized, appErr.Message)
	case apperr.KindStorage:
		h.logger.WithError(appErr).Error("Storage failure")
		respondWithError(w, http.StatusInternalServerError, appErr.Message)
	default:
		h.logger.WithError(appErr).Error("Unknown error kind")
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
