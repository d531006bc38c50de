package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/model"
)

// ISODateLayout is the canonical wire format for Gregorian dates.
const ISODateLayout = "2006-01-02"

// ErrInvalidISODate is returned when a string is not a valid YYYY-MM-DD calendar date.
var ErrInvalidISODate = errors.New("invalid ISO date")

// ParseISODate splits a canonical YYYY-MM-DD date into its components.
// Components are parsed as base-10 digits only; signs, spaces and out-of-range
// days (2023-02-29) are rejected.
func ParseISODate(s string) (year, month, day int, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidISODate, s)
	}

	values := make([]int, 3)
	for i, p := range parts {
		if !isDigits(p) {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidISODate, s)
		}
		v, convErr := strconv.ParseInt(p, 10, 32)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidISODate, s)
		}
		values[i] = int(v)
	}

	year, month, day = values[0], values[1], values[2]
	if month < 1 || month > 12 || day < 1 || day > DaysInAdMonth(year, month) {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidISODate, s)
	}
	return year, month, day, nil
}

// FormatISODate renders date components in the canonical YYYY-MM-DD form.
func FormatISODate(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// NormalizeISODate brings loosely formatted upstream dates into canonical form.
// A trailing time part ("2024-04-13T00:00:00") is dropped and unpadded month and
// day components ("2024-4-3") are zero-padded. Strings that do not have three
// dash-separated parts are returned trimmed but otherwise unchanged.
func NormalizeISODate(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		s = s[:i]
	}
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return s
	}
	return parts[0] + "-" + padTwo(parts[1]) + "-" + padTwo(parts[2])
}

// WeekdayOf returns the 0-based weekday (0 = Sunday) of a Gregorian date.
func WeekdayOf(year, month, day int) int {
	return int(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Weekday())
}

// DaysInAdMonth returns the number of days in a Gregorian month.
func DaysInAdMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NewAdDay builds an AdDay from validated components.
func NewAdDay(year, month, day int) model.AdDay {
	return model.AdDay{
		DateISO: FormatISODate(year, month, day),
		Year:    year,
		Month:   month,
		Day:     day,
		Weekday: WeekdayOf(year, month, day),
	}
}

// AdMonthDays lists every day of a Gregorian month in order.
func AdMonthDays(year, month int) []model.AdDay {
	n := DaysInAdMonth(year, month)
	days := make([]model.AdDay, 0, n)
	for d := 1; d <= n; d++ {
		days = append(days, NewAdDay(year, month, d))
	}
	return days
}

// CompareISODates orders two canonical ISO dates. Canonical dates sort
// lexically, so a string comparison is enough.
func CompareISODates(a, b string) int {
	return strings.Compare(a, b)
}

func padTwo(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
