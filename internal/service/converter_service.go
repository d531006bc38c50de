package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/cache"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/calendar"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/metrics"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/model"
)

// Conversion directions used in metrics and logs.
const (
	directionAdToBs = "ad_to_bs"
	directionBsToAd = "bs_to_ad"
)

// NepalTime is Nepal Standard Time (UTC+05:45, no daylight saving).
var NepalTime = time.FixedZone("NPT", 5*60*60+45*60)

// AdToBsCandidates returns the BS months that may contain an AD month's days,
// in search order: the anchor month, its neighbours, then the first month of
// the newer BS year and the last month of the older one. Months outside 1..12
// are moved into the adjacent year and duplicates are removed.
//
// The anchor assumes BS month 1 starts in mid-April: the anchor year is
// adYear+57 after April and adYear+56 otherwise, and the anchor month is
// (adMonth+8) mod 12 with 0 read as 12.
func AdToBsCandidates(adYear, adMonth int) []MonthRef {
	baseYear := adYear + 56
	if adMonth > 4 {
		baseYear = adYear + 57
	}

	anchor := (adMonth + 8) % 12
	if anchor == 0 {
		anchor = 12
	}

	newYear, oldYear := baseYear, baseYear
	if adMonth == 4 {
		newYear = adYear + 57
		oldYear = adYear + 56
	}

	return dedupeRefs([]MonthRef{
		{Year: baseYear, Month: anchor},
		{Year: baseYear, Month: anchor - 1},
		{Year: baseYear, Month: anchor + 1},
		{Year: newYear, Month: 1},
		{Year: oldYear, Month: 12},
	})
}

// ConverterService converts single dates between AD and BS.
type ConverterService struct {
	months  MonthResolver
	clock   cache.Clock
	logger  *zap.Logger
	metrics *metrics.Metrics
	fanout  int
}

// NewConverterService creates a new ConverterService. A nil clock uses the
// wall clock and a fanout of 0 resolves all candidates at once.
func NewConverterService(
	months MonthResolver,
	clock cache.Clock,
	logger *zap.Logger,
	m *metrics.Metrics,
	fanout int,
) *ConverterService {
	if clock == nil {
		clock = cache.RealClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConverterService{
		months:  months,
		clock:   clock,
		logger:  logger,
		metrics: m,
		fanout:  fanout,
	}
}

// ConvertAdToBs finds the BS day matching an AD date.
//
// Malformed input and dates outside the published data return an empty result
// with only Mode set. Candidate months that fail to resolve are logged and
// skipped; the first candidate in search order containing the date wins.
func (s *ConverterService) ConvertAdToBs(ctx context.Context, adDateISO string) model.ConversionResult {
	result := model.ConversionResult{Mode: model.ModeAdToBs}

	iso := calendar.NormalizeISODate(adDateISO)
	year, month, day, err := calendar.ParseISODate(iso)
	if err != nil {
		s.metrics.Conversion(directionAdToBs, metrics.ConversionInvalid)
		s.logger.Debug("Rejected AD date", zap.String("date", adDateISO), zap.Error(err))
		return result
	}

	refs := AdToBsCandidates(year, month)
	for _, outcome := range resolveAll(ctx, s.months, refs, s.fanout) {
		if outcome.err != nil {
			s.logger.Warn("Skipping candidate BS month",
				zap.String("ad_date", iso),
				zap.Int("bs_year", outcome.ref.Year),
				zap.Int("bs_month", outcome.ref.Month),
				zap.Error(outcome.err),
			)
			continue
		}
		for _, bs := range outcome.month.Days {
			if bs.AdDateISO != iso {
				continue
			}
			ad := calendar.NewAdDay(year, month, day)
			result.AD = &ad
			result.BS = &bs
			s.metrics.Conversion(directionAdToBs, metrics.ConversionFound)
			return result
		}
	}

	s.metrics.Conversion(directionAdToBs, metrics.ConversionNotFound)
	return result
}

// ConvertBsToAd finds the AD date of a BS day. Any failure to resolve the month
// is logged and reported as an empty result.
func (s *ConverterService) ConvertBsToAd(ctx context.Context, bsYear, bsMonth, bsDay int) model.ConversionResult {
	result := model.ConversionResult{Mode: model.ModeBsToAd}

	if bsMonth < 1 || bsMonth > 12 || bsDay < 1 {
		s.metrics.Conversion(directionBsToAd, metrics.ConversionInvalid)
		return result
	}

	month, err := s.months.ResolveBsMonth(ctx, bsYear, bsMonth)
	if err != nil {
		s.logger.Error("Failed to resolve BS month",
			zap.Int("bs_year", bsYear),
			zap.Int("bs_month", bsMonth),
			zap.Error(err),
		)
		s.metrics.Conversion(directionBsToAd, metrics.ConversionNotFound)
		return result
	}

	for _, bs := range month.Days {
		if bs.BsDay != bsDay {
			continue
		}
		y, m, d, err := calendar.ParseISODate(bs.AdDateISO)
		if err != nil {
			break
		}
		ad := calendar.NewAdDay(y, m, d)
		result.AD = &ad
		result.BS = &bs
		s.metrics.Conversion(directionBsToAd, metrics.ConversionFound)
		return result
	}

	s.metrics.Conversion(directionBsToAd, metrics.ConversionNotFound)
	return result
}

// Today converts the current date in Nepal.
func (s *ConverterService) Today(ctx context.Context) model.ConversionResult {
	now := s.clock.Now().In(NepalTime)
	return s.ConvertAdToBs(ctx, now.Format(calendar.ISODateLayout))
}
