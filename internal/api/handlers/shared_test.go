package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/apperrors"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/bsapi"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/validation"
)

// TestRespondJSON tests the respondJSON helper function.
// This is an internal test (package handlers, not handlers_test) because
// respondJSON is unexported.
func TestRespondJSON(t *testing.T) {
	t.Run("sets content-type and status code correctly", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"message": "success"}

		respondJSON(w, 200, data)

		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		if w.Header().Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type 'application/json', got '%s'", w.Header().Get("Content-Type"))
		}
	})

	t.Run("handles nil data without error", func(t *testing.T) {
		w := httptest.NewRecorder()

		respondJSON(w, 204, nil)

		if w.Code != 204 {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
	})

	t.Run("handles un-encodable data gracefully", func(t *testing.T) {
		w := httptest.NewRecorder()

		// Channels cannot be JSON encoded
		data := map[string]interface{}{
			"channel": make(chan int),
		}

		// Should not panic, just log a warning
		respondJSON(w, 200, data)

		// Status should still be set even if encoding fails
		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		// Content-Type should still be set
		if w.Header().Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type to be set")
		}
	})

	t.Run("encodes valid data successfully", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{
			"name":  "test",
			"value": "data",
		}

		respondJSON(w, 200, data)

		if w.Body.Len() == 0 {
			t.Error("Expected response body to contain JSON data")
		}

		body := w.Body.String()
		if body == "" {
			t.Error("Expected non-empty response body")
		}
	})
}

// TestRespondServiceError tests the mapping of service errors to statuses.
//
// WHY: Clients distinguish "your input is wrong" (400) from "the calendar
// source is down" (502). Collapsing either into 500 would hide the cause.
func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"fetch error", &bsapi.FetchError{URL: "u", StatusCode: 503}, http.StatusBadGateway},
		{"parse error", &bsapi.ParseError{URL: "u", Err: errors.New("bad")}, http.StatusBadGateway},
		{"joined fetch errors", errors.Join(&bsapi.FetchError{URL: "a"}, &bsapi.FetchError{URL: "b"}), http.StatusBadGateway},
		{"invalid month", apperrors.ErrInvalidAdMonth, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			respondServiceError(w, tt.err)

			if w.Code != tt.want {
				t.Errorf("Expected status %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestRespondValidationError(t *testing.T) {
	w := httptest.NewRecorder()

	respondValidationError(w, &validation.Error{Fields: map[string]string{"day": "out of range"}})

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, `"day":"out of range"`) {
		t.Errorf("Expected field details in body, got %s", body)
	}
}
