package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/repository"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/service"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/strategy"
)

// FixedClock returns a time source that always reports t.
//
// Example usage:
//
//	svc := testutil.NewTestPositionService(t, db).WithClock(testutil.FixedClock(asOf))
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func NewTestDataLoaderService(t *testing.T, db *sql.DB) *service.DataLoaderService {
	t.Helper()

	return service.NewDataLoaderService(
		repository.NewHoldingRepository(db),
		repository.NewFundRepository(db),
	)
}

func NewTestHoldingService(t *testing.T, db *sql.DB) *service.HoldingService {
	t.Helper()

	return service.NewHoldingService(
		db,
		repository.NewHoldingRepository(db),
		repository.NewFundRepository(db),
		NewTestDataLoaderService(t, db),
	)
}

func NewTestFundService(t *testing.T, db *sql.DB) *service.FundService {
	t.Helper()

	return service.NewFundService(db, repository.NewFundRepository(db))
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		repository.NewPortfolioRepository(db),
		NewTestDataLoaderService(t, db),
		zerolog.Nop(),
	)
}

func NewTestPositionService(t *testing.T, db *sql.DB) *service.PositionService {
	t.Helper()

	return service.NewPositionService(
		db,
		repository.NewPositionRepository(db),
		NewTestDataLoaderService(t, db),
		strategy.DefaultRegistry(),
		zerolog.Nop(),
	)
}

func NewTestDashboardService(t *testing.T, db *sql.DB) *service.DashboardService {
	t.Helper()

	return service.NewDashboardService(NewTestPositionService(t, db))
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db, strategy.DefaultRegistry())
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeFundCode generates a six digit fund code for testing.
//
// Example usage:
//
//	code := testutil.MakeFundCode()
//	// Returns: "483920"
func MakeFundCode() string {
	return randomFrom("0123456789", 6)
}

// MakeFundName generates a unique fund name for testing.
//
// Example usage:
//
//	name := testutil.MakeFundName("Tech Fund")
//	// Returns: "Tech Fund XYZ789"
func MakeFundName(base string) string {
	if base == "" {
		base = "Fund"
	}
	return base + " " + randomFrom("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", 6)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func randomFrom(charset string, length int) string {
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
