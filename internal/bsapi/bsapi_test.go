package bsapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/apperrors"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/bsapi"
)

const sampleDay = `[{
	"calendarInfo": {
		"dates": {
			"bs": {"year": {"en": "2081", "np": "२०८१"}, "month": {"en": "Baisakh", "code": {"en": "1"}}, "day": {"en": "4"}},
			"ad": {"full": {"en": "2024-4-16"}}
		},
		"days": {"dayOfWeek": {"en": "Tuesday"}, "codes": {"en": "3"}}
	},
	"tithiDetails": {"title": {"np": "अष्टमी"}},
	"eventDetails": [{"title": {"en": "Chaite Dashain", "np": "चैते दशैं"}, "isHoliday": "true"}],
	"panchangaDetails": {"times": {"sunrise": "05:45", "sunset": "18:30"}, "nakshatra": "पुष्य"}
}]`

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare date", `{"full": 2024-04-13}`, `{"full": "2024-04-13"}`},
		{"bare date without space", `{"full":2024-04-13}`, `{"full":"2024-04-13"}`},
		{"bare date-time", `{"at": 2024-04-13T06:00:00+05:45, "x": 1}`, `{"at": "2024-04-13T06:00:00+05:45", "x": 1}`},
		{"unpadded date", `{"full": 2024-4-3}`, `{"full": "2024-4-3"}`},
		{"quoted date untouched", `{"full": "2024-04-13"}`, `{"full": "2024-04-13"}`},
		{"numbers untouched", `{"n": 2024}`, `{"n": 2024}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(bsapi.RepairJSON([]byte(tt.in))))
		})
	}
}

func TestDecode(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		days, err := bsapi.Decode([]byte(sampleDay))
		require.NoError(t, err)
		require.Len(t, days, 1)

		d := days[0]
		assert.Equal(t, bsapi.Text("2081"), d.CalendarInfo.Dates.BS.Year.EN)
		assert.Equal(t, bsapi.Text("1"), d.CalendarInfo.Dates.BS.Month.Code.EN)
		assert.Equal(t, bsapi.Text("2024-4-16"), d.CalendarInfo.Dates.AD.Full.EN)
		assert.True(t, bool(d.EventDetails[0].IsHoliday))
		require.NotNil(t, d.PanchangaDetails)
		assert.Equal(t, bsapi.Text("पुष्य"), d.PanchangaDetails.Nakshatra.NP, "bare string accepted for a label object")
		assert.Nil(t, d.Panchanga)
	})

	t.Run("numbers in text slots", func(t *testing.T) {
		days, err := bsapi.Decode([]byte(`[{"calendarInfo": {"dates": {"bs": {"year": {"en": 2081}, "day": 7}}}}]`))
		require.NoError(t, err)
		assert.Equal(t, bsapi.Text("2081"), days[0].CalendarInfo.Dates.BS.Year.EN)
		assert.Equal(t, bsapi.Text("7"), days[0].CalendarInfo.Dates.BS.Day.EN)
	})

	t.Run("repairs bare date literal", func(t *testing.T) {
		days, err := bsapi.Decode([]byte(`[{"calendarInfo": {"dates": {"ad": {"full": {"en": 2024-04-13}}}}}]`))
		require.NoError(t, err)
		assert.Equal(t, bsapi.Text("2024-04-13"), days[0].CalendarInfo.Dates.AD.Full.EN)
	})

	t.Run("unexpected panchanga shapes keep the day", func(t *testing.T) {
		tests := map[string]string{
			"muhurats object":   `{"muhurats": {"abhijit": "11:50"}, "nakshatra": "पुष्य"}`,
			"muhurat string":    `{"muhurats": ["abhijit", {"periodName": {"en": "Abhijit"}}], "nakshatra": "पुष्य"}`,
			"times string":      `{"times": "n/a", "nakshatra": "पुष्य"}`,
			"times array":       `{"times": [], "nakshatra": "पुष्य"}`,
			"whole block array": `[]`,
		}

		for name, panchanga := range tests {
			t.Run(name, func(t *testing.T) {
				body := `[{"calendarInfo": {"dates": {"ad": {"full": {"en": "2024-04-16"}}}}, "panchangaDetails": ` + panchanga + `}]`

				days, err := bsapi.Decode([]byte(body))

				require.NoError(t, err)
				require.Len(t, days, 1)
				assert.Equal(t, bsapi.Text("2024-04-16"), days[0].CalendarInfo.Dates.AD.Full.EN)
				require.NotNil(t, days[0].PanchangaDetails)
				assert.Empty(t, days[0].PanchangaDetails.Times.Sunrise)
			})
		}
	})

	t.Run("unrepairable payload fails", func(t *testing.T) {
		_, err := bsapi.Decode([]byte(`[{"calendarInfo": {`))
		assert.Error(t, err)
	})

	t.Run("non-array payload fails", func(t *testing.T) {
		_, err := bsapi.Decode([]byte(`{"error": "not found"}`))
		assert.Error(t, err)
	})
}

func TestHTTPClient_FetchMonth(t *testing.T) {
	t.Run("requests zero-padded month path", func(t *testing.T) {
		var gotPath string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			assert.Equal(t, "application/json", r.Header.Get("Accept"))
			_, _ = w.Write([]byte(sampleDay))
		}))
		defer ts.Close()

		client := bsapi.NewHTTPClient(bsapi.Options{BaseURL: ts.URL + "/", Timeout: time.Second})
		days, err := client.FetchMonth(context.Background(), 2081, 1)

		require.NoError(t, err)
		assert.Equal(t, "/2081/01.json", gotPath)
		assert.Len(t, days, 1)
	})

	t.Run("non-success status is a fetch error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer ts.Close()

		client := bsapi.NewHTTPClient(bsapi.Options{BaseURL: ts.URL})
		_, err := client.FetchMonth(context.Background(), 2081, 12)

		var fetchErr *bsapi.FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusServiceUnavailable, fetchErr.StatusCode)
		assert.ErrorIs(t, err, apperrors.ErrUpstreamFetch)
		assert.NotErrorIs(t, err, apperrors.ErrUpstreamParse)
		assert.Contains(t, err.Error(), "/2081/12.json")
	})

	t.Run("garbage body is a parse error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		}))
		defer ts.Close()

		client := bsapi.NewHTTPClient(bsapi.Options{BaseURL: ts.URL})
		_, err := client.FetchMonth(context.Background(), 2081, 2)

		var parseErr *bsapi.ParseError
		require.True(t, errors.As(err, &parseErr))
		assert.ErrorIs(t, err, apperrors.ErrUpstreamParse)
	})

	t.Run("unreachable host is a fetch error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
		url := ts.URL
		ts.Close()

		client := bsapi.NewHTTPClient(bsapi.Options{BaseURL: url, Timeout: time.Second})
		_, err := client.FetchMonth(context.Background(), 2081, 2)

		assert.ErrorIs(t, err, apperrors.ErrUpstreamFetch)
	})

	t.Run("cancelled context while rate limited", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("[]"))
		}))
		defer ts.Close()

		client := bsapi.NewHTTPClient(bsapi.Options{BaseURL: ts.URL, RateLimit: 0.001, Burst: 1})
		_, err := client.FetchMonth(context.Background(), 2081, 1)
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err = client.FetchMonth(ctx, 2081, 2)
		assert.ErrorIs(t, err, apperrors.ErrUpstreamFetch)
	})

	t.Run("default base url", func(t *testing.T) {
		client := bsapi.NewHTTPClient(bsapi.Options{})
		assert.Equal(t, "https://data.miti.bikram.io/data/2080/09.json", client.MonthURL(2080, 9))
	})
}
