package service

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"strconv"

	"github.com/ndewijer/graham-screener/internal/apperrors"
	"github.com/ndewijer/graham-screener/internal/database"
	"github.com/ndewijer/graham-screener/internal/model"
	"github.com/ndewijer/graham-screener/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	features map[string]bool
}

// NewSystemService creates a new SystemService.
// features is reported as-is by CheckVersion.
func NewSystemService(db *sql.DB, features map[string]bool) *SystemService {
	return &SystemService{
		db:       db,
		features: features,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion reports the application version, the applied schema version
// and whether embedded migrations are still pending.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	current, pending, err := database.SchemaVersion(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("%w: %w", apperrors.ErrFailedToGetVersionInfo, err)
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		Commit:          version.Commit,
		DbVersion:       strconv.FormatInt(current, 10),
		Features:        maps.Clone(s.features),
		MigrationNeeded: pending,
	}
	if info.Features == nil {
		info.Features = map[string]bool{}
	}
	if pending {
		msg := "database schema is behind, restart the server to apply pending migrations"
		info.MigrationMessage = &msg
	}
	return info, nil
}
