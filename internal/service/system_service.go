package service

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/database"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/model"
	"github.com/ndewijer/Bikram-Sambat-Calendar-Backend/internal/version"
)

// Pinger is a cache backend that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemService handles system-related operations
type SystemService struct {
	db      *sql.DB
	backend string
	pinger  Pinger
}

// NewSystemService creates a new SystemService. db is nil unless the sqlite
// backend is in use; pinger is nil for backends without a health check.
func NewSystemService(db *sql.DB, backend string, pinger Pinger) *SystemService {
	return &SystemService{
		db:      db,
		backend: backend,
		pinger:  pinger,
	}
}

// CheckHealth checks the health of the configured cache backend
func (s *SystemService) CheckHealth(ctx context.Context) error {
	if s.db != nil {
		if err := database.HealthCheck(s.db); err != nil {
			return err
		}
	}
	if s.pinger != nil {
		return s.pinger.Ping(ctx)
	}
	return nil
}

// CheckVersion reports the application version and the cache key layout version.
func (s *SystemService) CheckVersion(ctx context.Context) model.VersionInfo {
	info := model.VersionInfo{
		AppVersion:   version.Version,
		CacheVersion: CacheVersion,
		CacheBackend: s.backend,
	}
	if s.db != nil {
		if v, err := database.SchemaVersion(ctx, s.db); err == nil {
			info.DbVersion = strconv.FormatInt(v, 10)
		}
	}
	return info
}
