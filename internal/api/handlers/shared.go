package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api/response"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/apperrors"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/validation"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			zap.L().Warn("Failed to encode JSON", zap.Error(err))
		}
	}
}

// respondValidationError sends 400 with the invalid fields as details.
func respondValidationError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}
	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
}

// respondServiceError maps service errors to HTTP statuses:
//   - validation errors: 400 Bad Request
//   - upstream fetch or parse failures: 502 Bad Gateway
//   - anything else: 500 Internal Server Error
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidAdMonth),
		errors.Is(err, apperrors.ErrInvalidBsMonth),
		errors.Is(err, apperrors.ErrInvalidAdYear),
		errors.Is(err, apperrors.ErrInvalidBsYear):
		respondValidationError(w, err)
	case errors.Is(err, apperrors.ErrUpstreamParse):
		response.RespondError(w, http.StatusBadGateway, "upstream calendar data could not be parsed", err.Error())
	case errors.Is(err, apperrors.ErrUpstreamFetch):
		response.RespondError(w, http.StatusBadGateway, "upstream calendar unavailable", err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, "internal error", err.Error())
	}
}
