package handlers

import (
	"net/http"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api/request"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/model"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/service"
)

// ConvertHandler handles single date conversions
type ConvertHandler struct {
	converter *service.ConverterService
}

// NewConvertHandler creates a new ConvertHandler
func NewConvertHandler(converter *service.ConverterService) *ConvertHandler {
	return &ConvertHandler{
		converter: converter,
	}
}

// AdToBs converts a Gregorian date to Bikram Sambat.
//
// Endpoint: GET /api/convert/ad-to-bs?date=YYYY-MM-DD
// Response: 200 OK with model.ConversionResult
// Error: 400 Bad Request for a malformed date, 404 Not Found with the empty
// result when the date is outside the published calendar
func (h *ConvertHandler) AdToBs(w http.ResponseWriter, r *http.Request) {
	req, err := request.ParseAdToBs(r.URL.Query().Get("date"))
	if err != nil {
		respondValidationError(w, err)
		return
	}

	respondConversion(w, h.converter.ConvertAdToBs(r.Context(), req.Date))
}

// BsToAd converts a Bikram Sambat date to Gregorian.
//
// Endpoint: GET /api/convert/bs-to-ad?year=2081&month=1&day=4
// Response: 200 OK with model.ConversionResult
// Error: 400 Bad Request for invalid fields, 404 Not Found with the empty
// result when the day does not exist or the month cannot be fetched
func (h *ConvertHandler) BsToAd(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req, err := request.ParseBsToAd(q.Get("year"), q.Get("month"), q.Get("day"))
	if err != nil {
		respondValidationError(w, err)
		return
	}

	respondConversion(w, h.converter.ConvertBsToAd(r.Context(), req.Year, req.Month, req.Day))
}

// Today converts the current date in Nepal.
//
// Endpoint: GET /api/convert/today
func (h *ConvertHandler) Today(w http.ResponseWriter, r *http.Request) {
	respondConversion(w, h.converter.Today(r.Context()))
}

func respondConversion(w http.ResponseWriter, result model.ConversionResult) {
	if !result.Found() {
		respondJSON(w, http.StatusNotFound, result)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
