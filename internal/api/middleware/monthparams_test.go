package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/api/middleware"
)

func monthRequest(year, month string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("year", year)
	rctx.URLParams.Add("month", month)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestValidateBsMonthParams(t *testing.T) {
	t.Run("passes parsed values to the handler", func(t *testing.T) {
		var got middleware.MonthParams
		var ok bool
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok = middleware.MonthParamsFrom(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		w := httptest.NewRecorder()
		middleware.ValidateBsMonthParams(next).ServeHTTP(w, monthRequest("2081", "01"))

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d", w.Code)
		}
		if !ok {
			t.Fatal("Expected month params in context")
		}
		if got.Year != 2081 || got.Month != 1 {
			t.Errorf("Expected 2081/1, got %d/%d", got.Year, got.Month)
		}
	})

	t.Run("returns 400 listing every invalid field", func(t *testing.T) {
		handlerCalled := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
		})

		w := httptest.NewRecorder()
		middleware.ValidateBsMonthParams(next).ServeHTTP(w, monthRequest("20x1", "13"))

		if handlerCalled {
			t.Error("Expected next handler NOT to be called")
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected 400, got %d", w.Code)
		}

		var body struct {
			Details map[string]string `json:"details"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if _, ok := body.Details["year"]; !ok {
			t.Error("Expected year in details")
		}
		if _, ok := body.Details["month"]; !ok {
			t.Error("Expected month in details")
		}
	})

	t.Run("returns 400 for missing params", func(t *testing.T) {
		handlerCalled := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			handlerCalled = true
		})

		w := httptest.NewRecorder()
		middleware.ValidateBsMonthParams(next).ServeHTTP(w, monthRequest("", ""))

		if handlerCalled {
			t.Error("Expected next handler NOT to be called")
		}
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d", w.Code)
		}
	})
}

func TestValidateAdMonthParams(t *testing.T) {
	tests := []struct {
		name   string
		year   string
		month  string
		status int
	}{
		{"valid", "2024", "4", http.StatusOK},
		{"BS year out of AD range", "2200", "4", http.StatusBadRequest},
		{"month zero", "2024", "0", http.StatusBadRequest},
		{"signed month", "2024", "+4", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			w := httptest.NewRecorder()
			middleware.ValidateAdMonthParams(next).ServeHTTP(w, monthRequest(tt.year, tt.month))

			if w.Code != tt.status {
				t.Errorf("Expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}
