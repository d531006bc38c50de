package apperrors

import "errors"

// Upstream errors describe failures talking to the external BS calendar data source.
// Typed errors in the bsapi package match these with errors.Is.
var (
	// ErrUpstreamFetch indicates the month endpoint was unreachable or answered
	// with a non-success status after all attempts.
	ErrUpstreamFetch = errors.New("failed to fetch BS month from upstream")

	// ErrUpstreamParse indicates the month payload could not be interpreted,
	// even after the JSON repair pass.
	ErrUpstreamParse = errors.New("failed to parse BS month from upstream")
)

// Validation errors represent request parameters outside the supported range.
var (
	ErrInvalidDate    = errors.New("date must be a valid YYYY-MM-DD date")
	ErrInvalidBsYear  = errors.New("BS year is out of range")
	ErrInvalidBsMonth = errors.New("BS month must be between 1 and 12")
	ErrInvalidBsDay   = errors.New("BS day must be between 1 and 32")
	ErrInvalidAdYear  = errors.New("AD year is out of range")
	ErrInvalidAdMonth = errors.New("AD month must be between 1 and 12")
	ErrNotANumber     = errors.New("value must be a base-10 integer")
)

// Lookup results.
var (
	// ErrDateNotFound is reported by the CLI when a conversion yields an empty
	// result. The conversion services never return it.
	ErrDateNotFound = errors.New("date not found in the published calendar")
)

// Cache errors.
var (
	// ErrCacheUnavailable indicates the configured cache backend could not be reached.
	ErrCacheUnavailable = errors.New("cache backend unavailable")
	// ErrUnknownCacheBackend indicates CACHE_BACKEND names no supported backend.
	ErrUnknownCacheBackend = errors.New("unknown cache backend")
)
