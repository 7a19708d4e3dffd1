package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

const (
	dateLayout      = "2006-01-02"
	timestampLayout = time.RFC3339Nano
)

// FundBuilder provides a fluent interface for creating test funds.
//
// Example usage:
//
//	// Simple creation with defaults
//	fund := testutil.NewFund().Build(t, db)
//
//	// Customized fund
//	fund := testutil.NewFund().
//	    WithCode("110011").
//	    WithType("Bond fund").
//	    Build(t, db)
type FundBuilder struct {
	Code              string
	Name              string
	FundType          string
	ManagementCompany string
}

// NewFund creates a FundBuilder with sensible defaults.
// The default type classifies as equity.
func NewFund() *FundBuilder {
	return &FundBuilder{
		Code:              MakeFundCode(),
		Name:              MakeFundName("Test Fund"),
		FundType:          "Equity fund",
		ManagementCompany: "Test Asset Management",
	}
}

// WithCode sets a custom fund code.
func (b *FundBuilder) WithCode(code string) *FundBuilder {
	b.Code = code
	return b
}

// WithName sets a custom name.
func (b *FundBuilder) WithName(name string) *FundBuilder {
	b.Name = name
	return b
}

// WithType sets the free-text fund type used for asset class inference.
func (b *FundBuilder) WithType(fundType string) *FundBuilder {
	b.FundType = fundType
	return b
}

// Build creates the fund in the database and returns it.
func (b *FundBuilder) Build(t *testing.T, db *sql.DB) model.Fund {
	t.Helper()

	query := `
		INSERT INTO fund (fund_code, fund_name, fund_type, management_company)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.Code, b.Name, b.FundType, b.ManagementCompany)
	if err != nil {
		t.Fatalf("Failed to create test fund: %v", err)
	}

	return model.Fund{
		Code:              b.Code,
		Name:              b.Name,
		FundType:          b.FundType,
		ManagementCompany: b.ManagementCompany,
	}
}

// CreateFund creates a fund with the given type and default values.
//
// Example usage:
//
//	fund := testutil.CreateFund(t, db, "Gold ETF feeder")
func CreateFund(t *testing.T, db *sql.DB, fundType string) model.Fund {
	t.Helper()
	return NewFund().WithType(fundType).Build(t, db)
}

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	holding := testutil.NewHolding(fund.Code).
//	    WithShares(1000).
//	    WithCostPrice(1.5).
//	    Build(t, db)
type HoldingBuilder struct {
	ID           string
	FundCode     string
	Platform     string
	Shares       float64
	CostPrice    float64
	PurchaseDate time.Time
	CreatedAt    time.Time
}

// NewHolding creates a HoldingBuilder with sensible defaults.
func NewHolding(fundCode string) *HoldingBuilder {
	now := time.Now().UTC()
	return &HoldingBuilder{
		ID:           MakeID(),
		FundCode:     fundCode,
		Platform:     "Test Broker",
		Shares:       1000,
		CostPrice:    1.0,
		PurchaseDate: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		CreatedAt:    now,
	}
}

// WithID sets a custom ID.
func (b *HoldingBuilder) WithID(id string) *HoldingBuilder {
	b.ID = id
	return b
}

// WithPlatform sets the platform the lot is held on.
func (b *HoldingBuilder) WithPlatform(platform string) *HoldingBuilder {
	b.Platform = platform
	return b
}

// WithShares sets the number of shares.
func (b *HoldingBuilder) WithShares(shares float64) *HoldingBuilder {
	b.Shares = shares
	return b
}

// WithCostPrice sets the cost price per share.
func (b *HoldingBuilder) WithCostPrice(costPrice float64) *HoldingBuilder {
	b.CostPrice = costPrice
	return b
}

// WithPurchaseDate sets the purchase date.
func (b *HoldingBuilder) WithPurchaseDate(date time.Time) *HoldingBuilder {
	b.PurchaseDate = date
	return b
}

// WithCreatedAt sets the creation timestamp, which decides listing order.
func (b *HoldingBuilder) WithCreatedAt(createdAt time.Time) *HoldingBuilder {
	b.CreatedAt = createdAt
	return b
}

// Build creates the holding in the database and returns it.
// The fund must already exist.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	query := `
		INSERT INTO holding (id, fund_code, platform, shares, cost_price, purchase_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := b.CreatedAt.UTC()
	_, err := db.Exec(query,
		b.ID,
		b.FundCode,
		b.Platform,
		b.Shares,
		b.CostPrice,
		b.PurchaseDate.Format(dateLayout),
		createdAt.Format(timestampLayout),
		createdAt.Format(timestampLayout),
	)
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:           b.ID,
		FundCode:     b.FundCode,
		Platform:     b.Platform,
		Shares:       b.Shares,
		CostPrice:    b.CostPrice,
		PurchaseDate: b.PurchaseDate,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
}

// CreateHolding creates a lot of the given size and cost price in a fund.
//
// Example usage:
//
//	holding := testutil.CreateHolding(t, db, fund.Code, 1000, 1.5)
func CreateHolding(t *testing.T, db *sql.DB, fundCode string, shares, costPrice float64) model.Holding {
	t.Helper()
	return NewHolding(fundCode).WithShares(shares).WithCostPrice(costPrice).Build(t, db)
}

// CreateNav stores a NAV point for a fund.
//
// Example usage:
//
//	testutil.CreateNav(t, db, fund.Code, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 1.25)
func CreateNav(t *testing.T, db *sql.DB, fundCode string, date time.Time, nav float64) model.FundNav {
	t.Helper()

	_, err := db.Exec(
		`INSERT INTO fund_nav (fund_code, date, nav) VALUES (?, ?, ?)`,
		fundCode, date.Format(dateLayout), nav,
	)
	if err != nil {
		t.Fatalf("Failed to create test nav: %v", err)
	}

	return model.FundNav{FundCode: fundCode, Date: date, Nav: nav}
}

// AllocationBuilder provides a fluent interface for creating allocation rows.
//
// Example usage:
//
//	testutil.NewAllocation(fund.Code, model.DimensionSector, "Technology", 60).
//	    WithReportDate(time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)).
//	    Build(t, db)
type AllocationBuilder struct {
	ID         string
	FundCode   string
	Dimension  model.Dimension
	Category   string
	Percentage float64
	Source     string
	ReportDate *time.Time
}

// NewAllocation creates an AllocationBuilder for one category row.
func NewAllocation(fundCode string, dimension model.Dimension, category string, percentage float64) *AllocationBuilder {
	return &AllocationBuilder{
		ID:         MakeID(),
		FundCode:   fundCode,
		Dimension:  dimension,
		Category:   category,
		Percentage: percentage,
		Source:     model.AllocationSourceAuto,
	}
}

// WithReportDate sets the report date of the row.
func (b *AllocationBuilder) WithReportDate(date time.Time) *AllocationBuilder {
	b.ReportDate = &date
	return b
}

// Manual marks the row as manually entered.
func (b *AllocationBuilder) Manual() *AllocationBuilder {
	b.Source = model.AllocationSourceManual
	return b
}

// Build creates the allocation row in the database and returns it.
func (b *AllocationBuilder) Build(t *testing.T, db *sql.DB) model.FundAllocation {
	t.Helper()

	var reportDate any
	if b.ReportDate != nil {
		reportDate = b.ReportDate.Format(dateLayout)
	}

	query := `
		INSERT INTO fund_allocation (id, fund_code, dimension, category, percentage, source, report_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.FundCode, string(b.Dimension), b.Category, b.Percentage, b.Source, reportDate)
	if err != nil {
		t.Fatalf("Failed to create test allocation: %v", err)
	}

	return model.FundAllocation{
		ID:         b.ID,
		FundCode:   b.FundCode,
		Dimension:  b.Dimension,
		Category:   b.Category,
		Percentage: b.Percentage,
		Source:     b.Source,
		ReportDate: b.ReportDate,
	}
}

// CreateTopHolding stores one disclosed top holding of a fund.
//
// Example usage:
//
//	testutil.CreateTopHolding(t, db, fund.Code, "600519", "Kweichow Moutai", 9.8)
func CreateTopHolding(t *testing.T, db *sql.DB, fundCode, stockCode, stockName string, percentage float64) model.FundTopHolding {
	t.Helper()

	id := MakeID()
	_, err := db.Exec(
		`INSERT INTO fund_top_holding (id, fund_code, stock_code, stock_name, percentage) VALUES (?, ?, ?, ?, ?)`,
		id, fundCode, stockCode, stockName, percentage,
	)
	if err != nil {
		t.Fatalf("Failed to create test top holding: %v", err)
	}

	return model.FundTopHolding{
		ID:         id,
		FundCode:   fundCode,
		StockCode:  stockCode,
		StockName:  stockName,
		Percentage: percentage,
	}
}

// SetBudget writes the singleton position budget row.
//
// Example usage:
//
//	testutil.SetBudget(t, db, 100000, 60, 80, "simple")
func SetBudget(t *testing.T, db *sql.DB, total, minRatio, maxRatio float64, activeStrategy string) model.PositionBudget {
	t.Helper()

	now := time.Now().UTC()
	query := `
		INSERT INTO position_budget (id, total_budget, target_position_min, target_position_max, active_strategy, updated_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			total_budget = excluded.total_budget,
			target_position_min = excluded.target_position_min,
			target_position_max = excluded.target_position_max,
			active_strategy = excluded.active_strategy,
			updated_at = excluded.updated_at
	`

	_, err := db.Exec(query, total, minRatio, maxRatio, activeStrategy, now.Format(timestampLayout))
	if err != nil {
		t.Fatalf("Failed to set test budget: %v", err)
	}

	return model.PositionBudget{
		ID:                1,
		TotalBudget:       total,
		TargetPositionMin: minRatio,
		TargetPositionMax: maxRatio,
		ActiveStrategy:    activeStrategy,
		UpdatedAt:         now,
	}
}
