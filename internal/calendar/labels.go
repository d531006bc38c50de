// Package calendar holds the pure, network-free helpers shared by the
// conversion services: romanized labels and ISO date handling.
package calendar

import "strings"

var bsMonthsRomanized = [12]string{
	"Baisakh", "Jestha", "Ashadh", "Shrawan", "Bhadra", "Ashwin",
	"Kartik", "Mangsir", "Poush", "Magh", "Falgun", "Chaitra",
}

var bsWeekdaysRomanized = [7]string{
	"Aaitabar", "Sombar", "Mangalbar", "Budhabar", "Bihibar", "Shukrabar", "Sanibar",
}

var adMonths = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

var adWeekdays = [7]string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// tithiRomanized maps the Devanagari tithi names published upstream to their
// romanized form. Purnima appears with both vowel spellings.
var tithiRomanized = map[string]string{
	"प्रतिपदा":  "Pratipada",
	"द्वितीया":  "Dwitiya",
	"तृतीया":    "Tritiya",
	"चतुर्थी":   "Chaturthi",
	"पञ्चमी":    "Panchami",
	"षष्ठी":     "Shasthi",
	"सप्तमी":    "Saptami",
	"अष्टमी":    "Ashtami",
	"नवमी":      "Navami",
	"दशमी":      "Dashami",
	"एकादशी":    "Ekadashi",
	"द्वादशी":   "Dwadashi",
	"त्रयोदशी":  "Trayodashi",
	"चतुर्दशी":  "Chaturdashi",
	"औँशी":      "Aunsi",
	"पूर्णिमा":  "Purnima",
	"पुर्णिमा":  "Purnima",
}

// BsMonthName returns the romanized name of a BS month (1-12), or "" when out of range.
func BsMonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return bsMonthsRomanized[month-1]
}

// BsWeekdayName returns the romanized Nepali weekday name for a 0-based weekday (0 = Sunday).
func BsWeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return bsWeekdaysRomanized[weekday]
}

// AdMonthName returns the English name of a Gregorian month (1-12).
func AdMonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return adMonths[month-1]
}

// AdWeekdayName returns the English weekday name for a 0-based weekday (0 = Sunday).
func AdWeekdayName(weekday int) string {
	if weekday < 0 || weekday > 6 {
		return ""
	}
	return adWeekdays[weekday]
}

// RomanizeTithi transliterates an upstream tithi label. Anything after the first
// whitespace token (for example a "बजेसम्म" end-time annotation) is ignored for the
// lookup. Labels missing from the table are returned unchanged.
func RomanizeTithi(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	if rom, ok := tithiRomanized[fields[0]]; ok {
		return rom
	}
	return raw
}
