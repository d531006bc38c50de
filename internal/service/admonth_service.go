package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/apperrors"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/calendar"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/model"
)

// adMonthOverlap lists the two BS months that together cover each AD month.
var adMonthOverlap = map[int][2]int{
	1:  {9, 10},
	2:  {10, 11},
	3:  {11, 12},
	4:  {12, 1},
	5:  {1, 2},
	6:  {2, 3},
	7:  {3, 4},
	8:  {4, 5},
	9:  {5, 6},
	10: {6, 7},
	11: {7, 8},
	12: {8, 9},
}

// AdMonthCandidates returns the BS months overlapping an AD month. The BS year
// rolls over in mid-April, so months before April and the Chaitra (12) half of
// April belong to the earlier BS year.
func AdMonthCandidates(adYear, adMonth int) []MonthRef {
	pair, ok := adMonthOverlap[adMonth]
	if !ok {
		return nil
	}

	refs := make([]MonthRef, 0, len(pair))
	for _, bsMonth := range pair {
		year := adYear + 57
		if adMonth < 4 || (adMonth == 4 && bsMonth == 12) {
			year = adYear + 56
		}
		refs = append(refs, MonthRef{Year: year, Month: bsMonth})
	}
	return refs
}

// AdMonthService assembles the BS days of a Gregorian month.
type AdMonthService struct {
	months MonthResolver
	logger *zap.Logger
	fanout int
}

// NewAdMonthService creates a new AdMonthService.
func NewAdMonthService(months MonthResolver, logger *zap.Logger, fanout int) *AdMonthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdMonthService{
		months: months,
		logger: logger,
		fanout: fanout,
	}
}

// ResolveAdMonth returns every BS day whose AD date falls in the given AD month,
// sorted by AD date with one entry per date.
//
// The result reuses the BsMonth shape: BsYear is adYear+57, BsMonth is 0 and
// BsMonthNameRom is the Gregorian month name.
//
// A failing candidate month is logged and skipped, so partial upstream outages
// yield a partial month. An error is returned only for an invalid month or when
// every candidate failed.
func (s *AdMonthService) ResolveAdMonth(ctx context.Context, adYear, adMonth int) (model.BsMonth, error) {
	result := model.BsMonth{
		BsYear:         adYear + 57,
		BsMonth:        0,
		BsMonthNameRom: calendar.AdMonthName(adMonth),
		Days:           []model.BsDay{},
	}

	refs := AdMonthCandidates(adYear, adMonth)
	if len(refs) == 0 {
		return result, fmt.Errorf("%w: %d", apperrors.ErrInvalidAdMonth, adMonth)
	}

	var (
		collected []model.BsDay
		failures  []error
	)
	for _, outcome := range resolveAll(ctx, s.months, refs, s.fanout) {
		if outcome.err != nil {
			s.logger.Warn("Skipping BS month for AD month view",
				zap.Int("ad_year", adYear),
				zap.Int("ad_month", adMonth),
				zap.Int("bs_year", outcome.ref.Year),
				zap.Int("bs_month", outcome.ref.Month),
				zap.Error(outcome.err),
			)
			failures = append(failures, outcome.err)
			continue
		}
		collected = append(collected, outcome.month.Days...)
	}

	if len(failures) == len(refs) {
		return result, errors.Join(failures...)
	}

	result.Days = filterAdMonth(collected, adYear, adMonth)
	return result, nil
}

// GetAdMonthGrid lists every Gregorian day of the month for calendar grids.
func (s *AdMonthService) GetAdMonthGrid(adYear, adMonth int) ([]model.AdDay, error) {
	if adMonth < 1 || adMonth > 12 {
		return nil, fmt.Errorf("%w: %d", apperrors.ErrInvalidAdMonth, adMonth)
	}
	return calendar.AdMonthDays(adYear, adMonth), nil
}

// filterAdMonth keeps days dated inside the AD month, sorted by AD date.
// When two days share a date the later one in input order wins.
func filterAdMonth(days []model.BsDay, adYear, adMonth int) []model.BsDay {
	byDate := make(map[string]model.BsDay, len(days))
	for _, day := range days {
		y, m, _, err := calendar.ParseISODate(day.AdDateISO)
		if err != nil || y != adYear || m != adMonth {
			continue
		}
		byDate[day.AdDateISO] = day
	}

	out := make([]model.BsDay, 0, len(byDate))
	for _, day := range byDate {
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool {
		return calendar.CompareISODates(out[i].AdDateISO, out[j].AdDateISO) < 0
	})
	return out
}
