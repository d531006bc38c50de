package warmer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/cache"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/service"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/testutil"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/warmer"
)

// TestWarmer_RunOnce tests a single warming run.
//
// WHY: The warmer runs unattended. It must leave the current and next month
// in the cache, and an upstream failure must be reported rather than crash
// the scheduler.
func TestWarmer_RunOnce(t *testing.T) {
	ctx := context.Background()

	t.Run("warms the current and next BS month", func(t *testing.T) {
		client := testutil.NewStubClient()
		svc := testutil.NewTestServices(t, client)
		w := warmer.New(svc.BsMonth, svc.Converter, svc.Cache, nil)

		report := w.RunOnce(ctx)

		assert.NotEmpty(t, report.RunID)
		assert.Equal(t, []service.MonthRef{{Year: 2081, Month: 1}, {Year: 2081, Month: 2}}, report.Warmed)
		assert.Empty(t, report.Failed)

		_, ok, err := svc.Cache.Get(ctx, service.CacheKey(2081, 2))
		require.NoError(t, err)
		assert.True(t, ok, "next month should be cached")
	})

	t.Run("next month wraps into the next BS year", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())
		svc.Clock.Set(time.Date(2024, 4, 1, 6, 0, 0, 0, time.UTC))
		w := warmer.New(svc.BsMonth, svc.Converter, svc.Cache, nil)

		report := w.RunOnce(ctx)

		assert.Equal(t, []service.MonthRef{{Year: 2080, Month: 12}, {Year: 2081, Month: 1}}, report.Warmed)
	})

	t.Run("prunes expired entries", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())
		require.NoError(t, svc.Cache.Set(ctx, "stale", []byte("x"), time.Minute))
		svc.Clock.Advance(time.Hour)
		w := warmer.New(svc.BsMonth, svc.Converter, svc.Cache, nil)

		report := w.RunOnce(ctx)

		assert.Equal(t, int64(1), report.Pruned)
	})

	t.Run("reports failed months", func(t *testing.T) {
		client := testutil.NewStubClient()
		client.FailAlways(2081, 2, nil)
		svc := testutil.NewTestServices(t, client)
		w := warmer.New(svc.BsMonth, svc.Converter, nil, nil)

		report := w.RunOnce(ctx)

		assert.Equal(t, []service.MonthRef{{Year: 2081, Month: 1}}, report.Warmed)
		assert.Equal(t, []service.MonthRef{{Year: 2081, Month: 2}}, report.Failed)
	})

	t.Run("does nothing outside the published calendar", func(t *testing.T) {
		svc := testutil.NewTestServices(t, testutil.NewStubClient())
		svc.Clock.Set(time.Date(2035, 1, 1, 0, 0, 0, 0, time.UTC))
		w := warmer.New(svc.BsMonth, svc.Converter, nil, nil)

		report := w.RunOnce(ctx)

		assert.Empty(t, report.Warmed)
	})
}

func TestWarmer_Start(t *testing.T) {
	svc := testutil.NewTestServices(t, testutil.NewStubClient())
	w := warmer.New(svc.BsMonth, svc.Converter, cache.NewMemory(nil), nil)

	assert.Error(t, w.Start("every now and then"))

	require.NoError(t, w.Start("@every 1h"))
	stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	w.Stop(stopCtx)
}
