package validation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/apperrors"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/calendar"
)

// Accepted ranges. The upstream publishes a narrower window; these bounds only
// reject values that cannot be a calendar year.
const (
	MinBsYear = 1970
	MaxBsYear = 2200
	MinAdYear = MinBsYear - 57
	MaxAdYear = MaxBsYear - 57
	MaxBsDay  = 32
)

// ParseInt parses a base-10 integer, rejecting signs other than '-', spaces
// and trailing garbage.
func ParseInt(value string) (int, error) {
	if value == "" || strings.TrimSpace(value) != value || strings.HasPrefix(value, "+") {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrNotANumber, value)
	}
	n, err := strconv.ParseInt(value, 10, 0)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", apperrors.ErrNotANumber, value)
	}
	return int(n), nil
}

// ValidateBsYear checks the BS year range
func ValidateBsYear(year int) error {
	if year < MinBsYear || year > MaxBsYear {
		return fmt.Errorf("%w: %d not in %d-%d", apperrors.ErrInvalidBsYear, year, MinBsYear, MaxBsYear)
	}
	return nil
}

// ValidateAdYear checks the AD year range
func ValidateAdYear(year int) error {
	if year < MinAdYear || year > MaxAdYear {
		return fmt.Errorf("%w: %d not in %d-%d", apperrors.ErrInvalidAdYear, year, MinAdYear, MaxAdYear)
	}
	return nil
}

// ParseBsMonth parses a BS year and month.
func ParseBsMonth(yearStr, monthStr string) (year, month int, err error) {
	verr := &Error{}
	year = parseField(verr, "year", yearStr, ValidateBsYear)
	month = parseField(verr, "month", monthStr, monthValidator(apperrors.ErrInvalidBsMonth))
	return year, month, verr.orNil()
}

// ParseBsDate parses a BS year, month and day. The day is only range checked;
// whether it exists is decided by the published month.
func ParseBsDate(yearStr, monthStr, dayStr string) (year, month, day int, err error) {
	verr := &Error{}
	year = parseField(verr, "year", yearStr, ValidateBsYear)
	month = parseField(verr, "month", monthStr, monthValidator(apperrors.ErrInvalidBsMonth))
	day = parseField(verr, "day", dayStr, func(d int) error {
		if d < 1 || d > MaxBsDay {
			return fmt.Errorf("%w: %d", apperrors.ErrInvalidBsDay, d)
		}
		return nil
	})
	return year, month, day, verr.orNil()
}

// ParseAdMonth parses an AD year and month.
func ParseAdMonth(yearStr, monthStr string) (year, month int, err error) {
	verr := &Error{}
	year = parseField(verr, "year", yearStr, ValidateAdYear)
	month = parseField(verr, "month", monthStr, monthValidator(apperrors.ErrInvalidAdMonth))
	return year, month, verr.orNil()
}

// ValidateAdDate checks an ISO date string. Unpadded months and days are
// accepted and returned padded.
func ValidateAdDate(value string) (string, error) {
	iso := calendar.NormalizeISODate(value)
	year, _, _, err := calendar.ParseISODate(iso)
	if err != nil {
		return "", &Error{Fields: map[string]string{"date": apperrors.ErrInvalidDate.Error()}}
	}
	if err := ValidateAdYear(year); err != nil {
		return "", &Error{Fields: map[string]string{"date": err.Error()}}
	}
	return iso, nil
}

func parseField(verr *Error, field, value string, check func(int) error) int {
	n, err := ParseInt(value)
	if err != nil {
		verr.add(field, err)
		return 0
	}
	if err := check(n); err != nil {
		verr.add(field, err)
	}
	return n
}

func monthValidator(sentinel error) func(int) error {
	return func(m int) error {
		if m < 1 || m > 12 {
			return fmt.Errorf("%w: %d", sentinel, m)
		}
		return nil
	}
}
