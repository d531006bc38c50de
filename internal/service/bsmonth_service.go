package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/bsapi"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/cache"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/metrics"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/model"
)

// CacheVersion is embedded in every month cache key. Bump it whenever the
// normalized BsMonth shape changes so stale entries are never read back.
const CacheVersion = 4

// Defaults for BsMonthConfig.
const (
	DefaultMonthTTL      = 30 * 24 * time.Hour
	DefaultFetchAttempts = 2
	DefaultRetryDelay    = 500 * time.Millisecond
	DefaultFetchTimeout  = 30 * time.Second
)

// CacheKey returns the cache key of a normalized BS month.
func CacheKey(year, month int) string {
	return fmt.Sprintf("bs-month-v%d:%d:%d", CacheVersion, year, month)
}

// MonthResolver resolves a normalized BS month. BsMonthService implements it;
// the AD month and conversion services depend only on this interface.
type MonthResolver interface {
	ResolveBsMonth(ctx context.Context, year, month int) (model.BsMonth, error)
}

// BsMonthConfig controls the fetch policy of a BsMonthService.
//
// Fields:
//   - Attempts: total number of upstream requests per resolution (at least 1)
//   - RetryDelay: fixed wait between attempts
//   - TTL: lifetime of a cached month
//   - FetchTimeout: bound on one shared upstream resolution, all attempts included
type BsMonthConfig struct {
	Attempts     int
	RetryDelay   time.Duration
	TTL          time.Duration
	FetchTimeout time.Duration
}

// DefaultBsMonthConfig returns two attempts 500ms apart and a 30 day TTL.
func DefaultBsMonthConfig() BsMonthConfig {
	return BsMonthConfig{
		Attempts:     DefaultFetchAttempts,
		RetryDelay:   DefaultRetryDelay,
		TTL:          DefaultMonthTTL,
		FetchTimeout: DefaultFetchTimeout,
	}
}

// BsMonthService resolves BS months through the cache, falling back to the
// upstream endpoint with retry. Concurrent misses for the same month share a
// single upstream resolution.
type BsMonthService struct {
	client  bsapi.Client
	cache   cache.MonthCache
	cfg     BsMonthConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
	group   singleflight.Group
}

// NewBsMonthService creates a new BsMonthService. A nil cache falls back to an
// in-process memory cache and a nil logger discards output.
func NewBsMonthService(
	client bsapi.Client,
	monthCache cache.MonthCache,
	cfg BsMonthConfig,
	logger *zap.Logger,
	m *metrics.Metrics,
) *BsMonthService {
	if monthCache == nil {
		monthCache = cache.NewMemory(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Attempts < 1 {
		cfg.Attempts = 1
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultMonthTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	return &BsMonthService{
		client:  client,
		cache:   monthCache,
		cfg:     cfg,
		logger:  logger,
		metrics: m,
	}
}

// ResolveBsMonth returns the normalized month, from cache when a live entry
// exists and otherwise from the upstream.
//
// Cache read and write failures are logged and never fail the call. Upstream
// failures are returned after all attempts as *bsapi.FetchError or
// *bsapi.ParseError, and nothing is cached.
//
// Concurrent misses for one month share a single fetch. The shared fetch is
// detached from every caller's context, so a caller that gives up only ends
// its own wait.
func (s *BsMonthService) ResolveBsMonth(ctx context.Context, year, month int) (model.BsMonth, error) {
	key := CacheKey(year, month)

	if cached, ok := s.readCache(ctx, key); ok {
		return cached, nil
	}

	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.FetchTimeout)
		defer cancel()
		return s.fetchAndStore(fetchCtx, key, year, month)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return model.BsMonth{}, res.Err
		}
		return res.Val.(model.BsMonth), nil
	case <-ctx.Done():
		return model.BsMonth{}, &bsapi.FetchError{URL: monthLabel(year, month), Err: ctx.Err()}
	}
}

func (s *BsMonthService) readCache(ctx context.Context, key string) (model.BsMonth, bool) {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.metrics.CacheLookup("error")
		s.logger.Warn("Month cache read failed", zap.String("key", key), zap.Error(err))
		return model.BsMonth{}, false
	}
	if !ok {
		s.metrics.CacheLookup("miss")
		return model.BsMonth{}, false
	}

	var cached model.BsMonth
	if err := json.Unmarshal(data, &cached); err != nil {
		s.metrics.CacheLookup("error")
		s.logger.Warn("Discarding undecodable month cache entry", zap.String("key", key), zap.Error(err))
		return model.BsMonth{}, false
	}

	s.metrics.CacheLookup("hit")
	return cached, true
}

func (s *BsMonthService) fetchAndStore(ctx context.Context, key string, year, month int) (model.BsMonth, error) {
	raw, err := s.fetchWithRetry(ctx, year, month)
	if err != nil {
		return model.BsMonth{}, err
	}

	normalized := NormalizeBsMonth(raw, year, month)

	data, err := json.Marshal(normalized)
	if err != nil {
		s.logger.Warn("Failed to encode month for cache", zap.String("key", key), zap.Error(err))
		return normalized, nil
	}
	if err := s.cache.Set(ctx, key, data, s.cfg.TTL); err != nil {
		s.logger.Warn("Month cache write failed", zap.String("key", key), zap.Error(err))
	}

	s.logger.Debug("Resolved BS month from upstream",
		zap.Int("bs_year", year),
		zap.Int("bs_month", month),
		zap.Int("days", len(normalized.Days)),
	)
	return normalized, nil
}

func (s *BsMonthService) fetchWithRetry(ctx context.Context, year, month int) ([]bsapi.RawDay, error) {
	var (
		raw     []bsapi.RawDay
		attempt int
	)

	backoff := retry.WithMaxRetries(uint64(s.cfg.Attempts-1), constantBackoff(s.cfg.RetryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		days, err := s.client.FetchMonth(ctx, year, month)
		if err != nil {
			s.metrics.UpstreamFetch(fetchOutcome(err))
			s.logger.Warn("BS month fetch attempt failed",
				zap.Int("bs_year", year),
				zap.Int("bs_month", month),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", s.cfg.Attempts),
				zap.Error(err),
			)
			return retry.RetryableError(err)
		}
		s.metrics.UpstreamFetch(metrics.FetchSuccess)
		raw = days
		return nil
	})
	if err != nil {
		var fetchErr *bsapi.FetchError
		var parseErr *bsapi.ParseError
		if !errors.As(err, &fetchErr) && !errors.As(err, &parseErr) {
			// Context cancellation during the wait between attempts.
			err = &bsapi.FetchError{URL: monthLabel(year, month), Err: err}
		}
		return nil, err
	}
	return raw, nil
}

func monthLabel(year, month int) string {
	return fmt.Sprintf("bs month %d/%02d", year, month)
}

// constantBackoff waits d between attempts. retry.NewConstant rejects a zero
// delay, which tests rely on.
func constantBackoff(d time.Duration) retry.Backoff {
	return retry.BackoffFunc(func() (time.Duration, bool) {
		return d, false
	})
}

func fetchOutcome(err error) string {
	var parseErr *bsapi.ParseError
	if errors.As(err, &parseErr) {
		return metrics.FetchParseError
	}
	return metrics.FetchError
}
