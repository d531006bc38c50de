// Package bsapi is the client for the external Bikram Sambat month endpoint.
// It performs exactly one request per call; retries and caching belong to the
// service layer.
package bsapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/apperrors"
)

// DefaultBaseURL is the public month data endpoint.
const DefaultBaseURL = "https://data.miti.bikram.io/data"

// maxResponseSize bounds the body read for a single month payload.
const maxResponseSize = 4 << 20

// Client fetches the raw day records of one BS month.
type Client interface {
	FetchMonth(ctx context.Context, year, month int) ([]RawDay, error)
}

// Options configures an HTTPClient.
//
// Fields:
//   - BaseURL: endpoint root, months are served at {BaseURL}/{year}/{MM}.json
//   - Timeout: per-request timeout of the underlying http.Client
//   - RateLimit: maximum requests per second to the upstream, 0 disables limiting
//   - Burst: limiter burst size, at least 1 when limiting is enabled
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64
	Burst     int
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewHTTPClient creates a new month endpoint client.
func NewHTTPClient(opts Options) *HTTPClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    limiter,
	}
}

// MonthURL returns the endpoint for a BS month, with the month zero-padded.
func (c *HTTPClient) MonthURL(year, month int) string {
	return fmt.Sprintf("%s/%d/%02d.json", c.baseURL, year, month)
}

// FetchMonth issues a single GET for the month and decodes the payload.
//
// Returns:
//   - []RawDay: the day records in source order
//   - *FetchError: transport failure or non-2xx status
//   - *ParseError: the body is not interpretable, even after RepairJSON
func (c *HTTPClient) FetchMonth(ctx context.Context, year, month int) ([]RawDay, error) {
	url := c.MonthURL(year, month)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &FetchError{URL: url, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", "bikram-sambat-calendar-backend/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}

	days, err := Decode(body)
	if err != nil {
		return nil, &ParseError{URL: url, Err: err}
	}
	return days, nil
}

// FetchError reports that the upstream could not be reached or answered with a
// non-success status. It matches apperrors.ErrUpstreamFetch.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, apperrors.ErrUpstreamFetch) hold.
func (e *FetchError) Is(target error) bool { return target == apperrors.ErrUpstreamFetch }

// ParseError reports that a month payload could not be decoded.
// It matches apperrors.ErrUpstreamParse.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, apperrors.ErrUpstreamParse) hold.
func (e *ParseError) Is(target error) bool { return target == apperrors.ErrUpstreamParse }
