package service

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/database"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/strategy"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	db       *sql.DB
	registry *strategy.Registry
}

// NewSystemService creates a new SystemService
func NewSystemService(db *sql.DB, registry *strategy.Registry) *SystemService {
	return &SystemService{
		db:       db,
		registry: registry,
	}
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return database.HealthCheck(ctx, s.db)
}

// CheckVersion reports the application version, the applied schema version and
// which strategies are available.
func (s *SystemService) CheckVersion(ctx context.Context) (model.VersionInfo, error) {
	status, err := database.Status(ctx, s.db)
	if err != nil {
		return model.VersionInfo{}, fmt.Errorf("failed to read schema status: %w", err)
	}

	features := make(map[string]bool)
	for _, st := range s.registry.List() {
		features["strategy_"+st.Name()] = true
	}

	info := model.VersionInfo{
		AppVersion:      version.Version,
		DbVersion:       strconv.FormatInt(status.Version, 10),
		Features:        features,
		MigrationNeeded: status.Pending,
	}
	if status.Pending {
		msg := "Database schema is behind the application; restart to apply pending migrations"
		info.MigrationMessage = &msg
	}
	return info, nil
}
