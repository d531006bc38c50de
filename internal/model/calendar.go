package model

// ConversionMode tags which direction a conversion was requested in.
type ConversionMode string

const (
	// ModeAdToBs marks a Gregorian to Bikram Sambat conversion.
	ModeAdToBs ConversionMode = "AD_TO_BS"
	// ModeBsToAd marks a Bikram Sambat to Gregorian conversion.
	ModeBsToAd ConversionMode = "BS_TO_AD"
)

// BsDay represents one calendar day indexed by its Bikram Sambat coordinates.
// AdDateISO (YYYY-MM-DD) is the join key between the AD and BS representation
// of the same day.
//
// Fields:
//   - BsYear, BsMonth (1-12), BsDay (1-32): BS calendar coordinates
//   - AdDateISO: the corresponding Gregorian date
//   - Weekday: 0-6, 0 = Sunday
//   - TithiRom: romanized lunar-day label, empty when the source has none
//   - HolidayNameRom: holiday label, empty when the day is not a holiday
//   - Events: event names in source order, never nil
//   - Extra: panchanga pass-through attributes
type BsDay struct {
	BsYear         int          `json:"bsYear"`
	BsMonth        int          `json:"bsMonth"`
	BsDay          int          `json:"bsDay"`
	AdDateISO      string       `json:"adDateISO"`
	Weekday        int          `json:"weekday"`
	TithiRom       string       `json:"tithiRom,omitempty"`
	HolidayNameRom string       `json:"holidayNameRom,omitempty"`
	Events         []string     `json:"events"`
	Extra          ExtraDetails `json:"extraDetails"`
}

// IsHoliday reports whether the upstream flagged the day as a public holiday.
func (d BsDay) IsHoliday() bool {
	return d.HolidayNameRom != ""
}

// ExtraDetails holds the astrological attributes of a day. The values are passed
// through from the upstream payload without interpretation.
type ExtraDetails struct {
	Sunrise      string    `json:"sunrise,omitempty"`
	Sunset       string    `json:"sunset,omitempty"`
	Moonrise     string    `json:"moonrise,omitempty"`
	Moonset      string    `json:"moonset,omitempty"`
	TithiEnd     string    `json:"tithiEnd,omitempty"`
	Nakshatra    string    `json:"nakshatra,omitempty"`
	Yog          string    `json:"yog,omitempty"`
	Karan        string    `json:"karan,omitempty"`
	Ritu         string    `json:"ritu,omitempty"`
	ChandraRashi string    `json:"chandraRashi,omitempty"`
	SuryaRashi   string    `json:"suryaRashi,omitempty"`
	NepalSambat  string    `json:"nepalSambat,omitempty"`
	SakSambat    string    `json:"sakSambat,omitempty"`
	Muhurats     []Muhurat `json:"muhurats,omitempty"`
}

// Muhurat is a named auspicious period of the day.
type Muhurat struct {
	Name     string `json:"name"`
	Duration string `json:"duration"`
}

// BsMonth is one Bikram Sambat month with its days sorted by BS day.
// The number of days (28-32) comes from the upstream data and is never assumed.
//
// The same shape is used for AD month views, where BsYear and BsMonth are
// placeholders and BsMonthNameRom carries the Gregorian month name.
type BsMonth struct {
	BsYear         int     `json:"bsYear"`
	BsMonth        int     `json:"bsMonth"`
	BsMonthNameRom string  `json:"bsMonthNameRom"`
	Days           []BsDay `json:"days"`
}

// AdDay is one Gregorian calendar day.
type AdDay struct {
	DateISO string `json:"dateISO"`
	Year    int    `json:"year"`
	Month   int    `json:"month"`
	Day     int    `json:"day"`
	Weekday int    `json:"weekday"`
}

// ConversionResult carries both projections of the same day.
// A result with AD and BS both nil means the date was not found; this is a
// regular outcome and not an error.
type ConversionResult struct {
	Mode ConversionMode `json:"mode"`
	AD   *AdDay         `json:"ad,omitempty"`
	BS   *BsDay         `json:"bs,omitempty"`
}

// Found reports whether the conversion produced a matching day.
func (r ConversionResult) Found() bool {
	return r.AD != nil && r.BS != nil
}
