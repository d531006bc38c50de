package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/bsapi"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/cache"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/service"
)

// TestToday is the frozen "now" used by service tests: 2024-04-16 (2081 Baisakh 4)
// at noon in Nepal.
var TestToday = time.Date(2024, 4, 16, 6, 15, 0, 0, time.UTC)

// TestServices bundles the services wired the way cmd/server wires them, on an
// in-memory cache and without retry delay.
type TestServices struct {
	Client    bsapi.Client
	Cache     *cache.Memory
	Clock     *FakeClock
	BsMonth   *service.BsMonthService
	AdMonth   *service.AdMonthService
	Converter *service.ConverterService
	Export    *service.ExportService
}

// NewTestBsMonthService creates a BsMonthService on a memory cache with two
// attempts and no delay between them.
func NewTestBsMonthService(t *testing.T, client bsapi.Client, monthCache cache.MonthCache) *service.BsMonthService {
	t.Helper()

	cfg := service.DefaultBsMonthConfig()
	cfg.RetryDelay = 0

	return service.NewBsMonthService(client, monthCache, cfg, nil, nil)
}

// NewTestServices wires every calendar service around client.
func NewTestServices(t *testing.T, client bsapi.Client) *TestServices {
	t.Helper()

	clock := NewFakeClock(TestToday)
	memory := cache.NewMemory(clock)
	bsMonth := NewTestBsMonthService(t, client, memory)

	return &TestServices{
		Client:    client,
		Cache:     memory,
		Clock:     clock,
		BsMonth:   bsMonth,
		AdMonth:   service.NewAdMonthService(bsMonth, nil, service.DefaultFanoutLimit),
		Converter: service.NewConverterService(bsMonth, clock, nil, nil, service.DefaultFanoutLimit),
		Export:    service.NewExportService(bsMonth, clock, nil),
	}
}

// NewTestSystemService creates a SystemService for the sqlite backend on db.
func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, "sqlite", nil)
}
