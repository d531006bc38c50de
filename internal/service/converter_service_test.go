package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/calendar"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/model"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/service"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/testutil"
)

func TestAdToBsCandidates(t *testing.T) {
	tests := []struct {
		name    string
		adYear  int
		adMonth int
		want    []service.MonthRef
	}{
		{
			name:    "mid year anchors on adYear+57",
			adYear:  2024,
			adMonth: 7,
			want: []service.MonthRef{
				{Year: 2081, Month: 3}, {Year: 2081, Month: 2}, {Year: 2081, Month: 4},
				{Year: 2081, Month: 1}, {Year: 2081, Month: 12},
			},
		},
		{
			name:    "april straddles the BS new year",
			adYear:  2024,
			adMonth: 4,
			want: []service.MonthRef{
				{Year: 2080, Month: 12}, {Year: 2080, Month: 11}, {Year: 2081, Month: 1},
			},
		},
		{
			name:    "january wraps to the previous BS months",
			adYear:  2025,
			adMonth: 1,
			want: []service.MonthRef{
				{Year: 2081, Month: 9}, {Year: 2081, Month: 8}, {Year: 2081, Month: 10},
				{Year: 2081, Month: 1}, {Year: 2081, Month: 12},
			},
		},
		{
			name:    "may spills into the previous BS year",
			adYear:  2024,
			adMonth: 5,
			want: []service.MonthRef{
				{Year: 2081, Month: 1}, {Year: 2080, Month: 12}, {Year: 2081, Month: 2},
				{Year: 2081, Month: 12},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.AdToBsCandidates(tt.adYear, tt.adMonth))
		})
	}
}

// TestConverterService_ConvertAdToBs tests AD to BS conversion.
//
// WHY: The candidate search is a heuristic around mid-April. Dates on either
// side of a BS month boundary, and on either side of the BS new year, must
// land in the right month. Failing candidates must not turn a findable date
// into an error.
func TestConverterService_ConvertAdToBs(t *testing.T) {
	ctx := context.Background()

	t.Run("mid april after the new year", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())

		result := svc.Converter.ConvertAdToBs(ctx, "2024-04-16")

		require.True(t, result.Found())
		assert.Equal(t, model.ModeAdToBs, result.Mode)
		assert.Equal(t, 2081, result.BS.BsYear)
		assert.Equal(t, 1, result.BS.BsMonth)
		assert.Equal(t, 4, result.BS.BsDay)
		assert.Equal(t, "2024-04-16", result.AD.DateISO)
		assert.Equal(t, 2, result.AD.Weekday)
	})

	t.Run("mid april before the new year", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())

		result := svc.Converter.ConvertAdToBs(ctx, "2024-04-10")

		require.True(t, result.Found())
		assert.Equal(t, 2080, result.BS.BsYear)
		assert.Equal(t, 12, result.BS.BsMonth)
		assert.Equal(t, 28, result.BS.BsDay)
	})

	t.Run("month boundary", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())

		last := svc.Converter.ConvertAdToBs(ctx, testutil.FixtureISO(2081, 3, 32))
		first := svc.Converter.ConvertAdToBs(ctx, testutil.FixtureISO(2081, 4, 1))

		require.True(t, last.Found())
		require.True(t, first.Found())
		assert.Equal(t, 3, last.BS.BsMonth)
		assert.Equal(t, 32, last.BS.BsDay)
		assert.Equal(t, 4, first.BS.BsMonth)
		assert.Equal(t, 1, first.BS.BsDay)
	})

	t.Run("accepts unpadded input", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())

		result := svc.Converter.ConvertAdToBs(ctx, "2024-4-16")

		require.True(t, result.Found())
		assert.Equal(t, "2024-04-16", result.AD.DateISO)
	})

	t.Run("malformed input is empty without fetching", func(t *testing.T) {
		client := testutil.NewStubClient()
		svc := testutil.NewTestServices(t, client)

		for _, input := range []string{"", "not-a-date", "2024-02-30", "2024-13-01", "24-04-16"} {
			result := svc.Converter.ConvertAdToBs(ctx, input)
			assert.False(t, result.Found(), "input %q", input)
			assert.Equal(t, model.ModeAdToBs, result.Mode)
		}
		assert.Equal(t, 0, client.TotalCalls())
	})

	t.Run("out of range is empty, not an error", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())

		result := svc.Converter.ConvertAdToBs(ctx, "1990-06-01")

		assert.False(t, result.Found())
		assert.Nil(t, result.AD)
		assert.Nil(t, result.BS)
	})

	t.Run("survives failing candidates", func(t *testing.T) {
		client := testutil.NewStubClient()
		client.FailAlways(2081, 2, nil)
		client.FailAlways(2081, 4, nil)
		client.FailAlways(2081, 12, nil)
		svc := testutil.NewTestServices(t, client)

		result := svc.Converter.ConvertAdToBs(ctx, "2024-07-01")

		require.True(t, result.Found())
		assert.Equal(t, 2081, result.BS.BsYear)
		assert.Equal(t, 3, result.BS.BsMonth)
	})

	t.Run("is empty when the matching month fails", func(t *testing.T) {
		client := testutil.NewStubClient()
		client.FailAlways(2081, 3, nil)
		svc := testutil.NewTestServices(t, client)

		result := svc.Converter.ConvertAdToBs(ctx, "2024-07-01")

		assert.False(t, result.Found())
	})

	t.Run("repeat conversion needs no upstream fetch", func(t *testing.T) {
		client := testutil.NewStubClient()
		svc := testutil.NewTestServices(t, client)

		first := svc.Converter.ConvertAdToBs(ctx, "2024-04-16")
		calls := client.TotalCalls()
		second := svc.Converter.ConvertAdToBs(ctx, "2024-04-16")

		assert.Equal(t, first, second)
		assert.Equal(t, calls, client.TotalCalls())
	})
}

// TestConverterService_ConvertBsToAd tests BS to AD conversion.
//
// WHY: This path has a single non-redundant fetch. Failures must degrade to an
// empty result, and nonexistent days must not be invented from month lengths.
func TestConverterService_ConvertBsToAd(t *testing.T) {
	ctx := context.Background()

	t.Run("finds the AD date", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())

		result := svc.Converter.ConvertBsToAd(ctx, 2081, 1, 4)

		require.True(t, result.Found())
		assert.Equal(t, model.ModeBsToAd, result.Mode)
		assert.Equal(t, "2024-04-16", result.AD.DateISO)
		assert.Equal(t, 2024, result.AD.Year)
		assert.Equal(t, 4, result.AD.Month)
		assert.Equal(t, 16, result.AD.Day)
	})

	t.Run("day beyond the month length is empty", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())

		result := svc.Converter.ConvertBsToAd(ctx, 2081, 1, 32)

		assert.False(t, result.Found())
		assert.Equal(t, model.ModeBsToAd, result.Mode)
	})

	t.Run("32 day month keeps its last day", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())

		result := svc.Converter.ConvertBsToAd(ctx, 2081, 3, 32)

		require.True(t, result.Found())
		assert.Equal(t, testutil.FixtureISO(2081, 3, 32), result.AD.DateISO)
	})

	t.Run("upstream failure is empty", func(t *testing.T) {
		client := testutil.NewStubClient()
		client.FailAlways(2081, 1, nil)
		svc := testutil.NewTestServices(t, client)

		result := svc.Converter.ConvertBsToAd(ctx, 2081, 1, 4)

		assert.False(t, result.Found())
		assert.Equal(t, 2, client.Calls(2081, 1))
	})

	t.Run("invalid coordinates skip the upstream", func(t *testing.T) {
		client := testutil.NewStubClient()
		svc := testutil.NewTestServices(t, client)

		assert.False(t, svc.Converter.ConvertBsToAd(ctx, 2081, 13, 1).Found())
		assert.False(t, svc.Converter.ConvertBsToAd(ctx, 2081, 1, 0).Found())
		assert.Equal(t, 0, client.TotalCalls())
	})
}

// TestConverterService_RoundTrip converts every day of the fixture calendar in
// both directions.
//
// WHY: This sweep checks the candidate formula for every AD date of five BS
// years. A date that exists in the published data must be found, and the two
// directions must agree.
func TestConverterService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := testutil.NewTestServices(t, testutil.NewStubClient())

	first, last := testutil.FixtureRange()
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		iso := day.Format(calendar.ISODateLayout)

		toBs := svc.Converter.ConvertAdToBs(ctx, iso)
		if !toBs.Found() {
			t.Errorf("ConvertAdToBs(%s) found nothing", iso)
			continue
		}

		back := svc.Converter.ConvertBsToAd(ctx, toBs.BS.BsYear, toBs.BS.BsMonth, toBs.BS.BsDay)
		if !back.Found() || back.AD.DateISO != iso {
			t.Errorf("round trip of %s via %d/%d/%d returned %+v",
				iso, toBs.BS.BsYear, toBs.BS.BsMonth, toBs.BS.BsDay, back.AD)
		}
	}
}

func TestConverterService_Today(t *testing.T) {
	ctx := context.Background()

	t.Run("converts the current date in Nepal", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())

		result := svc.Converter.Today(ctx)

		require.True(t, result.Found())
		assert.Equal(t, "2024-04-16", result.AD.DateISO)
	})

	t.Run("uses Nepal time across UTC midnight", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())
		// 20:00 UTC on the 15th is already 01:45 on the 16th in Kathmandu.
		svc.Clock.Set(time.Date(2024, 4, 15, 20, 0, 0, 0, time.UTC))

		result := svc.Converter.Today(ctx)

		require.True(t, result.Found())
		assert.Equal(t, "2024-04-16", result.AD.DateISO)
	})
}
