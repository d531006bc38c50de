package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/bsapi"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/calendar"
)

// Fixture range of the fake BS calendar.
const (
	FixtureFirstYear = 2079
	FixtureLastYear  = 2083
)

type fixtureYear struct {
	start   time.Time
	lengths [12]int
}

// fixtureYears mirrors published BS month lengths. Baisakh 1 falls on
// 13 or 14 April, which the conversion heuristics depend on.
var fixtureYears = map[int]fixtureYear{
	2079: {date(2022, 4, 14), [12]int{31, 31, 32, 31, 31, 31, 30, 29, 30, 29, 30, 30}},
	2080: {date(2023, 4, 14), [12]int{31, 32, 31, 32, 31, 30, 30, 30, 29, 29, 30, 30}},
	2081: {date(2024, 4, 13), [12]int{31, 31, 32, 32, 31, 30, 30, 30, 29, 30, 29, 31}},
	2082: {date(2025, 4, 14), [12]int{31, 31, 32, 31, 31, 30, 30, 30, 29, 30, 30, 30}},
	2083: {date(2026, 4, 14), [12]int{31, 32, 31, 32, 31, 30, 30, 30, 29, 30, 30, 30}},
}

var tithiCycle = []string{
	"प्रतिपदा", "द्वितीया", "तृतीया", "चतुर्थी", "पञ्चमी",
	"षष्ठी", "सप्तमी", "अष्टमी", "नवमी", "दशमी",
	"एकादशी", "द्वादशी", "त्रयोदशी", "चतुर्दशी", "पूर्णिमा",
}

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

// FixtureMonthLength returns the number of days of a fixture month.
func FixtureMonthLength(bsYear, bsMonth int) (int, bool) {
	y, ok := fixtureYears[bsYear]
	if !ok || bsMonth < 1 || bsMonth > 12 {
		return 0, false
	}
	return y.lengths[bsMonth-1], true
}

// FixtureADDate returns the AD date of a fixture BS day.
func FixtureADDate(bsYear, bsMonth, bsDay int) (time.Time, bool) {
	n, ok := FixtureMonthLength(bsYear, bsMonth)
	if !ok || bsDay < 1 || bsDay > n {
		return time.Time{}, false
	}
	y := fixtureYears[bsYear]
	offset := bsDay - 1
	for m := 0; m < bsMonth-1; m++ {
		offset += y.lengths[m]
	}
	return y.start.AddDate(0, 0, offset), true
}

// FixtureISO is FixtureADDate formatted as YYYY-MM-DD; it panics outside the fixture.
func FixtureISO(bsYear, bsMonth, bsDay int) string {
	t, ok := FixtureADDate(bsYear, bsMonth, bsDay)
	if !ok {
		panic(fmt.Sprintf("no fixture day %d/%d/%d", bsYear, bsMonth, bsDay))
	}
	return t.Format(calendar.ISODateLayout)
}

// FixtureRange returns the first and last AD date covered by the fixture.
func FixtureRange() (first, last time.Time) {
	first, _ = FixtureADDate(FixtureFirstYear, 1, 1)
	n, _ := FixtureMonthLength(FixtureLastYear, 12)
	last, _ = FixtureADDate(FixtureLastYear, 12, n)
	return first, last
}

// RawMonthJSON renders a fixture month in the upstream layout. AD dates are
// published unpadded ("2024-4-13"), as the live endpoint does.
//
// Each month carries a non-holiday event on day 15; Baisakh 1 is the
// "Nepali New Year" holiday.
func RawMonthJSON(bsYear, bsMonth int) ([]byte, bool) {
	n, ok := FixtureMonthLength(bsYear, bsMonth)
	if !ok {
		return nil, false
	}

	days := make([]map[string]any, 0, n)
	for d := 1; d <= n; d++ {
		ad, _ := FixtureADDate(bsYear, bsMonth, d)

		events := []map[string]any{}
		if bsMonth == 1 && d == 1 {
			events = append(events, map[string]any{
				"title":     map[string]any{"en": "Nepali New Year", "np": "नयाँ वर्ष"},
				"isHoliday": true,
			})
		}
		if d == 15 {
			events = append(events, map[string]any{
				"title":     map[string]any{"np": "पूर्णिमा व्रत"},
				"isHoliday": false,
			})
		}

		days = append(days, map[string]any{
			"calendarInfo": map[string]any{
				"dates": map[string]any{
					"bs": map[string]any{
						"year":  map[string]any{"en": strconv.Itoa(bsYear)},
						"month": map[string]any{"en": calendar.BsMonthName(bsMonth), "code": map[string]any{"en": strconv.Itoa(bsMonth)}},
						"day":   map[string]any{"en": strconv.Itoa(d)},
					},
					"ad": map[string]any{
						"full": map[string]any{"en": fmt.Sprintf("%d-%d-%d", ad.Year(), int(ad.Month()), ad.Day())},
					},
				},
				"days": map[string]any{
					"dayOfWeek": map[string]any{"en": ad.Weekday().String()},
					"codes":     map[string]any{"en": strconv.Itoa(int(ad.Weekday()) + 1)},
				},
			},
			"tithiDetails": map[string]any{
				"title": map[string]any{"np": tithiCycle[(d-1)%len(tithiCycle)]},
			},
			"eventDetails": events,
			"panchangaDetails": map[string]any{
				"times":     map[string]any{"sunrise": "06:05", "sunset": "18:12"},
				"nakshatra": "अश्विनी",
			},
		})
	}

	body, err := json.Marshal(days)
	if err != nil {
		panic(err)
	}
	return body, true
}

var quotedFullDate = regexp.MustCompile(`"full":\{"en":"(\d{4}-\d{1,2}-\d{1,2})"\}`)

// BareDates strips the quotes around AD dates, reproducing the malformed
// payloads the upstream occasionally serves.
func BareDates(body []byte) []byte {
	return quotedFullDate.ReplaceAll(body, []byte(`"full":{"en":$1}`))
}

type monthKey struct{ year, month int }

// FakeUpstream is an httptest server publishing the fixture calendar at
// /{year}/{MM}.json. Unknown months answer 404.
type FakeUpstream struct {
	Server *httptest.Server

	mu        sync.Mutex
	requests  map[monthKey]int
	failures  map[monthKey]int
	bareDates bool
}

// NewFakeUpstream starts the server and closes it when the test ends.
func NewFakeUpstream(t *testing.T) *FakeUpstream {
	t.Helper()

	f := &FakeUpstream{
		requests: make(map[monthKey]int),
		failures: make(map[monthKey]int),
	}

	r := chi.NewRouter()
	r.Get("/{year}/{month}.json", f.serveMonth)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL to configure a bsapi.HTTPClient with.
func (f *FakeUpstream) URL() string {
	return f.Server.URL
}

// Client returns an HTTP client for the fake without rate limiting.
func (f *FakeUpstream) Client() *bsapi.HTTPClient {
	return bsapi.NewHTTPClient(bsapi.Options{BaseURL: f.URL(), Timeout: 5 * time.Second})
}

// FailNext makes the next n requests for a month answer 503.
func (f *FakeUpstream) FailNext(bsYear, bsMonth, n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[monthKey{bsYear, bsMonth}] = n
}

// SetBareDates toggles unquoted AD dates in served payloads.
func (f *FakeUpstream) SetBareDates(on bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bareDates = on
}

// Requests returns how many requests were made for a month.
func (f *FakeUpstream) Requests(bsYear, bsMonth int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[monthKey{bsYear, bsMonth}]
}

func (f *FakeUpstream) serveMonth(w http.ResponseWriter, r *http.Request) {
	year, errY := strconv.Atoi(chi.URLParam(r, "year"))
	month, errM := strconv.Atoi(chi.URLParam(r, "month"))
	if errY != nil || errM != nil {
		http.NotFound(w, r)
		return
	}

	key := monthKey{year, month}
	f.mu.Lock()
	f.requests[key]++
	failing := f.failures[key] > 0
	if failing {
		f.failures[key]--
	}
	bare := f.bareDates
	f.mu.Unlock()

	if failing {
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
		return
	}

	body, ok := RawMonthJSON(year, month)
	if !ok {
		http.NotFound(w, r)
		return
	}
	if bare {
		body = BareDates(body)
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

// StubClient is an in-process bsapi.Client serving the fixture calendar,
// with call counting and failure injection.
type StubClient struct {
	// Delay is applied to every call before answering.
	Delay time.Duration

	mu       sync.Mutex
	calls    map[monthKey]int
	failures map[monthKey]stubFailure
}

type stubFailure struct {
	remaining int // negative fails forever
	err       error
}

// NewStubClient creates a StubClient.
func NewStubClient() *StubClient {
	return &StubClient{
		calls:    make(map[monthKey]int),
		failures: make(map[monthKey]stubFailure),
	}
}

// FailNext makes the next n calls for a month return err. A nil err
// defaults to a 503 FetchError.
func (c *StubClient) FailNext(bsYear, bsMonth, n int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[monthKey{bsYear, bsMonth}] = stubFailure{remaining: n, err: err}
}

// FailAlways makes every call for a month return err.
func (c *StubClient) FailAlways(bsYear, bsMonth int, err error) {
	c.FailNext(bsYear, bsMonth, -1, err)
}

// Calls returns how many times a month was fetched.
func (c *StubClient) Calls(bsYear, bsMonth int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[monthKey{bsYear, bsMonth}]
}

// TotalCalls returns the number of fetches across all months.
func (c *StubClient) TotalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, n := range c.calls {
		total += n
	}
	return total
}

// FetchMonth implements bsapi.Client.
func (c *StubClient) FetchMonth(ctx context.Context, year, month int) ([]bsapi.RawDay, error) {
	url := fmt.Sprintf("stub://%d/%02d.json", year, month)
	key := monthKey{year, month}

	c.mu.Lock()
	c.calls[key]++
	failure, failing := c.failures[key]
	if failing && failure.remaining != 0 {
		if failure.remaining > 0 {
			failure.remaining--
			c.failures[key] = failure
		}
	} else {
		failing = false
	}
	c.mu.Unlock()

	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return nil, &bsapi.FetchError{URL: url, Err: ctx.Err()}
		}
	}

	if failing {
		if failure.err != nil {
			return nil, failure.err
		}
		return nil, &bsapi.FetchError{URL: url, StatusCode: http.StatusServiceUnavailable}
	}

	body, ok := RawMonthJSON(year, month)
	if !ok {
		return nil, &bsapi.FetchError{URL: url, StatusCode: http.StatusNotFound}
	}
	days, err := bsapi.Decode(body)
	if err != nil {
		return nil, &bsapi.ParseError{URL: url, Err: err}
	}
	return days, nil
}
