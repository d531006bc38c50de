package service

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/bsapi"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/calendar"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/model"
)

// NormalizeBsMonth maps the raw upstream records of one month into a BsMonth.
// This is the only place that knows the upstream layout; every optional path
// falls back to an explicit default:
//   - BS year and month default to the requested coordinates, the day to 1
//   - the AD date is re-padded to YYYY-MM-DD; records without one are dropped
//   - the weekday is the 1-based upstream code minus one, or is derived from the
//     AD date when the code is missing or out of range
//   - tithi, holiday, events and panchanga details default to empty
//
// Days are returned sorted by BS day.
func NormalizeBsMonth(raw []bsapi.RawDay, year, month int) model.BsMonth {
	days := make([]model.BsDay, 0, len(raw))
	for _, item := range raw {
		day := normalizeDay(item, year, month)
		if day.AdDateISO == "" {
			continue
		}
		days = append(days, day)
	}

	sort.SliceStable(days, func(i, j int) bool {
		return days[i].BsDay < days[j].BsDay
	})

	return model.BsMonth{
		BsYear:         year,
		BsMonth:        month,
		BsMonthNameRom: calendar.BsMonthName(month),
		Days:           days,
	}
}

func normalizeDay(item bsapi.RawDay, year, month int) model.BsDay {
	bs := item.CalendarInfo.Dates.BS
	iso := calendar.NormalizeISODate(firstNonEmpty(item.CalendarInfo.Dates.AD.Full.EN))

	day := model.BsDay{
		BsYear:    intOr(bs.Year.EN, year),
		BsMonth:   intOr(bs.Month.Code.EN, month),
		BsDay:     intOr(bs.Day.EN, 1),
		AdDateISO: iso,
		Weekday:   weekdayOf(item.CalendarInfo.Days.Codes.EN, iso),
		TithiRom:  calendar.RomanizeTithi(firstNonEmpty(item.TithiDetails.Title.NP)),
		Events:    make([]string, 0, len(item.EventDetails)),
		Extra:     extraDetails(item),
	}

	for _, event := range item.EventDetails {
		title := firstNonEmpty(event.Title.EN, event.Title.NP)
		if event.IsHoliday && day.HolidayNameRom == "" {
			day.HolidayNameRom = title
		}
		if title != "" {
			day.Events = append(day.Events, title)
		}
	}

	return day
}

func extraDetails(item bsapi.RawDay) model.ExtraDetails {
	p := item.PanchangaDetails
	if p == nil {
		p = item.Panchanga
	}
	if p == nil {
		p = &bsapi.Panchanga{}
	}

	info := item.CalendarInfo
	extra := model.ExtraDetails{
		Sunrise:      firstNonEmpty(p.Times.Sunrise, p.Sunrise),
		Sunset:       firstNonEmpty(p.Times.Sunset, p.Sunset),
		Moonrise:     firstNonEmpty(p.Times.Moonrise),
		Moonset:      firstNonEmpty(p.Times.Moonset),
		TithiEnd:     firstNonEmpty(item.TithiDetails.EndTime.NP, item.TithiDetails.EndTime.EN),
		Nakshatra:    labelText(p.Nakshatra),
		Yog:          labelText(p.Yog),
		Karan:        firstNonEmpty(p.Karans.First.NP, bsapi.Text(labelText(p.Karan))),
		Ritu:         firstNonEmpty(item.HrituDetails.Title.EN, item.HrituDetails.Title.NP, info.Ritu.EN, info.Ritu.NP),
		ChandraRashi: labelText(p.ChandraRashi),
		SuryaRashi:   labelText(p.SuryaRashi),
		NepalSambat:  firstNonEmpty(info.NepalSambat.Year.EN, info.NepalSambat.Year.NP),
		SakSambat:    firstNonEmpty(info.SakSambat.Year.EN, info.SakSambat.Year.NP),
	}

	for _, m := range p.Muhurats {
		name := firstNonEmpty(m.PeriodName.EN, m.PeriodName.NP)
		if name == "" {
			continue
		}
		extra.Muhurats = append(extra.Muhurats, model.Muhurat{
			Name:     name,
			Duration: firstNonEmpty(m.Duration.EN, m.Duration.NP),
		})
	}

	return extra
}

// labelText prefers the direct Nepali label, then the nested English and Nepali names.
func labelText(l bsapi.NamedLabel) string {
	return firstNonEmpty(l.NP, l.Name.EN, l.Name.NP, l.EN)
}

func weekdayOf(code bsapi.Text, iso string) int {
	if c := intOr(code, 0); c >= 1 && c <= 7 {
		return c - 1
	}
	if y, m, d, err := calendar.ParseISODate(iso); err == nil {
		return calendar.WeekdayOf(y, m, d)
	}
	return 0
}

// intOr parses a base-10 integer, returning fallback for empty or invalid text.
func intOr(t bsapi.Text, fallback int) int {
	v, err := strconv.Atoi(strings.TrimSpace(string(t)))
	if err != nil {
		return fallback
	}
	return v
}

func firstNonEmpty(values ...bsapi.Text) string {
	for _, v := range values {
		if s := strings.TrimSpace(string(v)); s != "" {
			return s
		}
	}
	return ""
}
