package bsapi

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// RawDay represents one day record as published by the BS month endpoint.
// The type mirrors the nested upstream layout so that normalization can map it
// field by field. Every nested object is optional: a missing path decodes to the
// zero value, and scalar slots accept strings, numbers, booleans or null.
//
// Relevant paths:
//   - calendarInfo.dates.bs.{year,month.code,day}.en: BS coordinates
//   - calendarInfo.dates.ad.full.en: Gregorian date, sometimes unpadded
//   - calendarInfo.days.codes.en: 1-based weekday code (1 = Sunday)
//   - tithiDetails.title.np: Devanagari tithi label
//   - eventDetails[]: events with localized titles and an isHoliday flag
//   - panchangaDetails (or panchanga): times, nakshatra, yog, karan, rashi, muhurats
type RawDay struct {
	CalendarInfo     CalendarInfo  `json:"calendarInfo"`
	TithiDetails     TithiDetails  `json:"tithiDetails"`
	EventDetails     []EventDetail `json:"eventDetails"`
	PanchangaDetails *Panchanga    `json:"panchangaDetails"`
	Panchanga        *Panchanga    `json:"panchanga"`
	HrituDetails     TitleDetail   `json:"hrituDetails"`
}

// CalendarInfo groups the date coordinates of a day.
type CalendarInfo struct {
	Dates struct {
		BS BsDate `json:"bs"`
		AD AdDate `json:"ad"`
	} `json:"dates"`
	Days        DayInfo   `json:"days"`
	Ritu        Localized `json:"ritu"`
	NepalSambat Era       `json:"nepalSambat"`
	SakSambat   Era       `json:"sakSambat"`
}

// BsDate holds the BS coordinates. The month number is taken from Month.Code,
// never from the position of the record in the payload.
type BsDate struct {
	Year  Localized `json:"year"`
	Month struct {
		NP   Text      `json:"np"`
		EN   Text      `json:"en"`
		Code Localized `json:"code"`
	} `json:"month"`
	Day Localized `json:"day"`
}

// AdDate holds the Gregorian date of a day.
type AdDate struct {
	Full Localized `json:"full"`
}

// DayInfo holds the weekday of a day.
type DayInfo struct {
	DayOfWeek Localized `json:"dayOfWeek"`
	Codes     Localized `json:"codes"`
}

// Era is a year in an alternative era (Nepal Sambat, Sak Sambat).
type Era struct {
	Year Localized `json:"year"`
}

// TithiDetails holds the lunar day label.
type TithiDetails struct {
	Title   Localized `json:"title"`
	EndTime Localized `json:"endTime"`
}

// TitleDetail is a generic titled block.
type TitleDetail struct {
	Title Localized `json:"title"`
}

// EventDetail is one event attached to a day.
type EventDetail struct {
	Title     Localized `json:"title"`
	IsHoliday Flag      `json:"isHoliday"`
}

// Panchanga holds the astrological attributes. Times may be nested under
// "times" or flattened onto the object depending on the upstream revision.
// None of these fields decide the date mapping, so a block of the wrong JSON
// type decodes to the zero value instead of failing the month.
type Panchanga struct {
	Times        PanchangaTimes `json:"times"`
	Sunrise      Text           `json:"sunrise"`
	Sunset       Text           `json:"sunset"`
	Nakshatra    NamedLabel     `json:"nakshatra"`
	Yog          NamedLabel     `json:"yog"`
	Karan        NamedLabel     `json:"karan"`
	ChandraRashi NamedLabel     `json:"chandraRashi"`
	SuryaRashi   NamedLabel     `json:"suryaRashi"`
	Muhurats     Muhurats       `json:"muhurats"`
	Karans       struct {
		First Localized `json:"first"`
	} `json:"karans"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *Panchanga) UnmarshalJSON(b []byte) error {
	type plain Panchanga
	var v plain
	if err := decodeObject(b, &v); err != nil {
		return err
	}
	*p = Panchanga(v)
	return nil
}

// PanchangaTimes holds the nested sun and moon times.
type PanchangaTimes struct {
	Sunrise  Text `json:"sunrise"`
	Sunset   Text `json:"sunset"`
	Moonrise Text `json:"moonrise"`
	Moonset  Text `json:"moonset"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *PanchangaTimes) UnmarshalJSON(b []byte) error {
	type plain PanchangaTimes
	var v plain
	if err := decodeObject(b, &v); err != nil {
		return err
	}
	*t = PanchangaTimes(v)
	return nil
}

// Muhurats is the list of auspicious periods. Anything but a JSON array
// decodes to an empty list.
type Muhurats []RawMuhurat

// UnmarshalJSON implements json.Unmarshaler.
func (m *Muhurats) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		*m = nil
		return nil
	}
	var items []RawMuhurat
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	*m = items
	return nil
}

// RawMuhurat is an auspicious period as published upstream.
type RawMuhurat struct {
	PeriodName Localized `json:"periodName"`
	Duration   Localized `json:"duration"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *RawMuhurat) UnmarshalJSON(b []byte) error {
	type plain RawMuhurat
	var v plain
	if err := decodeObject(b, &v); err != nil {
		return err
	}
	*r = RawMuhurat(v)
	return nil
}

// decodeObject decodes b into v when b is a JSON object and leaves v untouched
// for any other JSON type.
func decodeObject(b []byte, v any) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	return json.Unmarshal(b, v)
}

// Text is a lenient scalar. It accepts JSON strings, numbers and booleans
// (kept as their literal text) and treats null, objects and arrays as empty.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		*t = ""
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	case 'n', '{', '[':
		*t = ""
	default:
		*t = Text(b)
	}
	return nil
}

// String returns the text.
func (t Text) String() string {
	return string(t)
}

// Localized is a label published in Nepali (np) and English (en). A bare scalar
// in place of the object is accepted and used for both languages.
type Localized struct {
	NP Text `json:"np"`
	EN Text `json:"en"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (l *Localized) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		type plain Localized
		var p plain
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		*l = Localized(p)
		return nil
	}
	var t Text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	*l = Localized{NP: t, EN: t}
	return nil
}

// NamedLabel is a Localized label that may additionally carry a nested "name".
type NamedLabel struct {
	NP   Text      `json:"np"`
	EN   Text      `json:"en"`
	Name Localized `json:"name"`
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NamedLabel) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '{' {
		type plain NamedLabel
		var p plain
		if err := json.Unmarshal(b, &p); err != nil {
			return err
		}
		*n = NamedLabel(p)
		return nil
	}
	var t Text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	*n = NamedLabel{NP: t}
	return nil
}

// Flag is a lenient boolean accepting true/false, "true"/"false" and 1/0.
type Flag bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Flag) UnmarshalJSON(b []byte) error {
	var t Text
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := strconv.ParseBool(string(t))
	*f = Flag(err == nil && v)
	return nil
}
