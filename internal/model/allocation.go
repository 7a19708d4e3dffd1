package model

import (
	"fmt"
	"time"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
)

// Dimension is an allocation axis a fund reports its breakdown on.
type Dimension string

const (
	DimensionAssetClass Dimension = "asset_class"
	DimensionSector     Dimension = "sector"
	DimensionGeography  Dimension = "geography"
)

// Dimensions lists every supported allocation dimension.
var Dimensions = []Dimension{DimensionAssetClass, DimensionSector, DimensionGeography}

// ParseDimension converts a raw dimension name into a Dimension.
// Returns apperrors.ErrInvalidDimension for unknown names.
func ParseDimension(s string) (Dimension, error) {
	for _, d := range Dimensions {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidDimension, s)
}

// Allocation sources.
const (
	AllocationSourceAuto   = "auto"
	AllocationSourceManual = "manual"
)

// FundAllocation is one category row of a fund's breakdown on a dimension.
// A fund may carry rows for several report dates; only the latest is current.
type FundAllocation struct {
	ID         string     `json:"id"`
	FundCode   string     `json:"fund_code"`
	Dimension  Dimension  `json:"dimension"`
	Category   string     `json:"category"`
	Percentage float64    `json:"percentage"`
	Source     string     `json:"source"`
	ReportDate *time.Time `json:"report_date,omitempty"`
}

// AllocationContribution is one fund's weighted share of a category.
type AllocationContribution struct {
	FundCode   string  `json:"fund_code"`
	FundName   string  `json:"fund_name"`
	Percentage float64 `json:"percentage"`
}

// AllocationItem is a portfolio-level category with its contributing funds.
type AllocationItem struct {
	Category   string                   `json:"category"`
	Percentage float64                  `json:"percentage"`
	Funds      []AllocationContribution `json:"funds"`
}

// AllocationCoverage describes how much of the portfolio value reported the dimension.
type AllocationCoverage struct {
	CoveredFunds    int      `json:"covered_funds"`
	TotalFunds      int      `json:"total_funds"`
	CoveredFundList []string `json:"covered_fund_list"`
	CoveredValue    float64  `json:"covered_value"`
	TotalValue      float64  `json:"total_value"`
	CoveredPercent  float64  `json:"covered_percent"`
	MissingFunds    []string `json:"missing_funds"`
}

// AllocationResult is the weighted breakdown of the whole portfolio on one dimension.
// Item percentages are relative to total portfolio value, so they sum to
// CoveredPercent rather than 100 when coverage is partial.
type AllocationResult struct {
	Dimension Dimension          `json:"dimension"`
	Items     []AllocationItem   `json:"items"`
	Coverage  AllocationCoverage `json:"coverage"`
}
