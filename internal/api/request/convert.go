// Package request turns raw query and path parameters into validated request values.
package request

import (
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/validation"
)

// AdToBsRequest is a validated AD to BS conversion request.
type AdToBsRequest struct {
	Date string
}

// BsToAdRequest is a validated BS to AD conversion request.
type BsToAdRequest struct {
	Year  int
	Month int
	Day   int
}

// ParseAdToBs validates the date query parameter and returns it padded to YYYY-MM-DD.
func ParseAdToBs(dateParam string) (AdToBsRequest, error) {
	iso, err := validation.ValidateAdDate(dateParam)
	if err != nil {
		return AdToBsRequest{}, err
	}
	return AdToBsRequest{Date: iso}, nil
}

// ParseBsToAd validates the year, month and day query parameters.
func ParseBsToAd(yearParam, monthParam, dayParam string) (BsToAdRequest, error) {
	year, month, day, err := validation.ParseBsDate(yearParam, monthParam, dayParam)
	if err != nil {
		return BsToAdRequest{}, err
	}
	return BsToAdRequest{Year: year, Month: month, Day: day}, nil
}
