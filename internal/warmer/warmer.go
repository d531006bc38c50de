// Package warmer keeps the month cache populated around the current date and
// prunes expired entries on a cron schedule.
package warmer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/cache"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/service"
)

// runTimeout bounds a single warming run.
const runTimeout = 2 * time.Minute

// Report summarizes one warming run.
type Report struct {
	RunID  string
	Pruned int64
	Warmed []service.MonthRef
	Failed []service.MonthRef
}

// Warmer resolves the current and next BS month so the first request of the
// day is served from cache.
type Warmer struct {
	months    service.MonthResolver
	converter *service.ConverterService
	pruner    cache.Pruner
	logger    *zap.Logger

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a Warmer. pruner may be nil for backends that expire entries
// on their own.
func New(months service.MonthResolver, converter *service.ConverterService, pruner cache.Pruner, logger *zap.Logger) *Warmer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Warmer{
		months:    months,
		converter: converter,
		pruner:    pruner,
		logger:    logger,
	}
}

// Start schedules RunOnce with a cron spec such as "@every 6h" or "0 */6 * * *".
// Overlapping runs are skipped.
func (w *Warmer) Start(schedule string) error {
	logAdapter := cronLogger{w.logger.Sugar()}
	w.cron = cron.New(
		cron.WithLogger(logAdapter),
		cron.WithChain(cron.Recover(logAdapter), cron.SkipIfStillRunning(logAdapter)),
	)
	w.ctx, w.cancel = context.WithCancel(context.Background())

	if _, err := w.cron.AddFunc(schedule, func() {
		w.RunOnce(w.ctx)
	}); err != nil {
		w.cancel()
		return fmt.Errorf("invalid warm schedule %q: %w", schedule, err)
	}

	w.cron.Start()
	w.logger.Info("Cache warmer started", zap.String("schedule", schedule))
	return nil
}

// Stop cancels a running job and waits for it to return or for ctx to expire.
func (w *Warmer) Stop(ctx context.Context) {
	if w.cron == nil {
		return
	}
	w.cancel()
	done := w.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunOnce prunes expired entries and resolves today's BS month and the next one.
// Failures are logged and reported, never returned.
func (w *Warmer) RunOnce(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	report := Report{RunID: uuid.NewString()}
	logger := w.logger.With(zap.String("run_id", report.RunID))
	start := time.Now()

	if w.pruner != nil {
		pruned, err := w.pruner.PruneExpired(ctx)
		if err != nil {
			logger.Warn("Failed to prune month cache", zap.Error(err))
		}
		report.Pruned = pruned
	}

	today := w.converter.Today(ctx)
	if !today.Found() {
		logger.Warn("Today is not in the published calendar, nothing to warm")
		return report
	}

	current := service.MonthRef{Year: today.BS.BsYear, Month: today.BS.BsMonth}
	for _, ref := range []service.MonthRef{current, current.Next()} {
		if _, err := w.months.ResolveBsMonth(ctx, ref.Year, ref.Month); err != nil {
			logger.Warn("Failed to warm BS month",
				zap.Int("bs_year", ref.Year),
				zap.Int("bs_month", ref.Month),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, ref)
			continue
		}
		report.Warmed = append(report.Warmed, ref)
	}

	logger.Info("Cache warm run finished",
		zap.Int64("pruned", report.Pruned),
		zap.Int("warmed", len(report.Warmed)),
		zap.Int("failed", len(report.Failed)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return report
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
