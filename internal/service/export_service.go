package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"go.uber.org/zap"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/cache"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/calendar"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/model"
)

// iCalendar property names and fixed values.
const (
	propVersion     = "VERSION"
	propProdID      = "PRODID"
	propCalScale    = "CALSCALE"
	propMethod      = "METHOD"
	propCalName     = "X-WR-CALNAME"
	propRefresh     = "REFRESH-INTERVAL"
	propUID         = "UID"
	propDTStamp     = "DTSTAMP"
	propDTStart     = "DTSTART"
	propSummary     = "SUMMARY"
	propDescription = "DESCRIPTION"
	propCategories  = "CATEGORIES"
	propTransp      = "TRANSP"

	icalVersion = "2.0"
	icalProdID  = "-//Bikram Sambat Calendar//Backend//EN"
	icalDomain  = "bikram-sambat-calendar"

	categoryHoliday = "HOLIDAY"
	categoryEvent   = "EVENT"
)

// stubVCalendar is returned for months without holidays or events.
const stubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:" + icalVersion + "\r\nPRODID:" + icalProdID + "\r\nEND:VCALENDAR\r\n"

const icalRefreshInterval = 24 * time.Hour

// ExportService renders BS months as iCalendar feeds.
type ExportService struct {
	months MonthResolver
	clock  cache.Clock
	logger *zap.Logger
}

// NewExportService creates a new ExportService.
func NewExportService(months MonthResolver, clock cache.Clock, logger *zap.Logger) *ExportService {
	if clock == nil {
		clock = cache.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		months: months,
		clock:  clock,
		logger: logger,
	}
}

// MonthICS returns the holidays and events of a BS month as all-day VEVENTs,
// one per event name. Errors from resolving the month are returned unchanged.
func (s *ExportService) MonthICS(ctx context.Context, bsYear, bsMonth int) ([]byte, error) {
	month, err := s.months.ResolveBsMonth(ctx, bsYear, bsMonth)
	if err != nil {
		return nil, err
	}
	return s.Render(month)
}

// Render encodes an already resolved month.
func (s *ExportService) Render(month model.BsMonth) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(propVersion, icalVersion)
	cal.Props.SetText(propProdID, icalProdID)
	cal.Props.SetText(propCalScale, "GREGORIAN")
	cal.Props.SetText(propMethod, "PUBLISH")
	cal.Props.SetText(propCalName, fmt.Sprintf("Bikram Sambat %s %d", month.BsMonthNameRom, month.BsYear))

	refresh := ical.NewProp(propRefresh)
	refresh.SetDuration(icalRefreshInterval)
	cal.Props.Set(refresh)

	stamp := ical.NewProp(propDTStamp)
	stamp.SetDateTime(s.clock.Now().UTC())

	for _, day := range month.Days {
		date, err := time.Parse(calendar.ISODateLayout, day.AdDateISO)
		if err != nil {
			s.logger.Debug("Skipping day without usable AD date", zap.String("ad_date", day.AdDateISO))
			continue
		}

		for i, name := range dayEventNames(day) {
			event := ical.NewEvent()
			event.Props.SetText(propUID, fmt.Sprintf("%s-%d@%s", day.AdDateISO, i, icalDomain))
			event.Props.SetText(propSummary, name)
			event.Props.SetText(propDescription, describeDay(day))
			event.Props.SetText(propTransp, "TRANSPARENT")

			category := categoryEvent
			if name == day.HolidayNameRom {
				category = categoryHoliday
			}
			event.Props.SetText(propCategories, category)

			start := ical.NewProp(propDTStart)
			start.SetDate(date)
			event.Props.Set(start)
			event.Props.Set(stamp)

			cal.Children = append(cal.Children, event.Component)
		}
	}

	if len(cal.Children) == 0 {
		return []byte(stubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode iCalendar data: %w", err)
	}
	return buf.Bytes(), nil
}

// describeDay renders the BS date with both weekday names,
// e.g. "Sanibar, 1 Baisakh 2081 BS (Saturday)".
func describeDay(day model.BsDay) string {
	return fmt.Sprintf("%s, %d %s %d BS (%s)",
		calendar.BsWeekdayName(day.Weekday),
		day.BsDay,
		calendar.BsMonthName(day.BsMonth),
		day.BsYear,
		calendar.AdWeekdayName(day.Weekday),
	)
}

// dayEventNames lists the event names of a day, adding the holiday name when
// the upstream did not also list it as an event.
func dayEventNames(day model.BsDay) []string {
	names := append([]string(nil), day.Events...)
	if day.HolidayNameRom == "" {
		return names
	}
	for _, n := range names {
		if n == day.HolidayNameRom {
			return names
		}
	}
	return append([]string{day.HolidayNameRom}, names...)
}
