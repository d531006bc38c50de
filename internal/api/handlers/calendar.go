package handlers

import (
	"fmt"
	"net/http"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api/middleware"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api/response"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/service"
)

// CalendarHandler serves whole BS and AD months
type CalendarHandler struct {
	bsMonths service.MonthResolver
	adMonths *service.AdMonthService
	export   *service.ExportService
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(
	bsMonths service.MonthResolver,
	adMonths *service.AdMonthService,
	export *service.ExportService,
) *CalendarHandler {
	return &CalendarHandler{
		bsMonths: bsMonths,
		adMonths: adMonths,
		export:   export,
	}
}

// BsMonth returns a normalized BS month.
//
// Endpoint: GET /api/calendar/bs/{year}/{month}
// Response: 200 OK with model.BsMonth
// Error: 400 Bad Request for invalid parameters, 502 Bad Gateway when the
// upstream cannot be fetched or parsed
func (h *CalendarHandler) BsMonth(w http.ResponseWriter, r *http.Request) {
	params, ok := monthParams(w, r)
	if !ok {
		return
	}

	month, err := h.bsMonths.ResolveBsMonth(r.Context(), params.Year, params.Month)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, month)
}

// AdMonth returns the BS days of an AD month.
//
// Endpoint: GET /api/calendar/ad/{year}/{month}
// Response: 200 OK with model.BsMonth; days may be partial when one of the
// overlapping BS months is unavailable
// Error: 502 Bad Gateway when no overlapping BS month could be resolved
func (h *CalendarHandler) AdMonth(w http.ResponseWriter, r *http.Request) {
	params, ok := monthParams(w, r)
	if !ok {
		return
	}

	month, err := h.adMonths.ResolveAdMonth(r.Context(), params.Year, params.Month)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, month)
}

// AdMonthGrid returns every Gregorian day of an AD month.
//
// Endpoint: GET /api/calendar/ad/{year}/{month}/grid
func (h *CalendarHandler) AdMonthGrid(w http.ResponseWriter, r *http.Request) {
	params, ok := monthParams(w, r)
	if !ok {
		return
	}

	grid, err := h.adMonths.GetAdMonthGrid(params.Year, params.Month)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, grid)
}

// BsMonthICS returns the holidays and events of a BS month as iCalendar.
//
// Endpoint: GET /api/calendar/bs/{year}/{month}/ics
// Response: 200 OK with text/calendar
func (h *CalendarHandler) BsMonthICS(w http.ResponseWriter, r *http.Request) {
	params, ok := monthParams(w, r)
	if !ok {
		return
	}

	data, err := h.export.MonthICS(r.Context(), params.Year, params.Month)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="bs-%d-%02d.ics"`, params.Year, params.Month))
	response.RespondBytes(w, http.StatusOK, "text/calendar; charset=utf-8", data)
}

func monthParams(w http.ResponseWriter, r *http.Request) (middleware.MonthParams, bool) {
	params, ok := middleware.MonthParamsFrom(r.Context())
	if !ok {
		response.RespondError(w, http.StatusBadRequest, "year and month are required", "")
	}
	return params, ok
}
