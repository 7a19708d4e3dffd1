package valuation

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// AllocationInput holds everything AggregateAllocation needs.
type AllocationInput struct {
	Dimension   model.Dimension
	Holdings    []model.Holding
	Prices      PriceLookup
	Allocations AllocationLookup
	Funds       FundLookup
}

// AggregateAllocation weights every fund's category breakdown on one dimension by
// the fund's share of total portfolio market value.
//
// Percentages are relative to the total portfolio value, not renormalised over
// the funds that report the dimension: with partial coverage the items sum to
// Coverage.CoveredPercent and Coverage.MissingFunds lists the gap.
//
// Returns apperrors.ErrInvalidDimension for an unknown dimension. Missing prices
// or allocation rows never fail; they degrade to empty or zero output.
func AggregateAllocation(in AllocationInput) (model.AllocationResult, error) {
	dimension, err := model.ParseDimension(string(in.Dimension))
	if err != nil {
		return model.AllocationResult{}, err
	}

	allFunds := distinctFundCodes(in.Holdings)

	// Market value per priced fund, in order of first appearance.
	var pricedFunds []string
	fundValues := make(map[string]float64)
	var totalValue float64
	for _, h := range in.Holdings {
		nav, ok := latestNav(in.Prices, h.FundCode)
		if !ok {
			continue
		}
		if _, seen := fundValues[h.FundCode]; !seen {
			pricedFunds = append(pricedFunds, h.FundCode)
		}
		mv := h.Shares * nav
		fundValues[h.FundCode] += mv
		totalValue += mv
	}

	result := model.AllocationResult{
		Dimension: dimension,
		Items:     []model.AllocationItem{},
		Coverage: model.AllocationCoverage{
			TotalFunds:      len(allFunds),
			CoveredFundList: []string{},
			MissingFunds:    []string{},
		},
	}
	if totalValue == 0 {
		return result, nil
	}

	var categories []string
	categoryTotals := make(map[string]float64)
	categoryFunds := make(map[string][]model.AllocationContribution)
	var coveredValue float64

	for _, code := range pricedFunds {
		marketValue := fundValues[code]
		if marketValue == 0 {
			continue
		}
		weight := marketValue / totalValue

		var rows []model.FundAllocation
		if in.Allocations != nil {
			rows = latestReport(in.Allocations.Allocations(code, dimension))
		}
		if len(rows) == 0 {
			result.Coverage.MissingFunds = append(result.Coverage.MissingFunds, code)
			continue
		}

		coveredValue += marketValue
		result.Coverage.CoveredFundList = append(result.Coverage.CoveredFundList, code)

		name := code
		if f, ok := fundMeta(in.Funds, code); ok && f.Name != "" {
			name = f.Name
		}

		for _, row := range rows {
			weighted := row.Percentage * weight
			if _, seen := categoryTotals[row.Category]; !seen {
				categories = append(categories, row.Category)
			}
			categoryTotals[row.Category] += weighted
			categoryFunds[row.Category] = append(categoryFunds[row.Category], model.AllocationContribution{
				FundCode:   code,
				FundName:   name,
				Percentage: weighted,
			})
		}
	}

	for _, category := range categories {
		funds := categoryFunds[category]
		slices.SortStableFunc(funds, func(a, b model.AllocationContribution) int {
			return cmp.Compare(b.Percentage, a.Percentage)
		})
		result.Items = append(result.Items, model.AllocationItem{
			Category:   category,
			Percentage: categoryTotals[category],
			Funds:      funds,
		})
	}
	slices.SortStableFunc(result.Items, func(a, b model.AllocationItem) int {
		return cmp.Compare(b.Percentage, a.Percentage)
	})

	result.Coverage.CoveredFunds = len(result.Coverage.CoveredFundList)
	result.Coverage.CoveredValue = coveredValue
	result.Coverage.TotalValue = totalValue
	result.Coverage.CoveredPercent = math.Round(coveredValue/totalValue*1000) / 10

	return result, nil
}

// latestReport keeps only the rows of the most recent report date.
// When no row carries a report date all rows are kept.
func latestReport(rows []model.FundAllocation) []model.FundAllocation {
	var latest time.Time
	for _, r := range rows {
		if r.ReportDate != nil && r.ReportDate.After(latest) {
			latest = *r.ReportDate
		}
	}
	if latest.IsZero() {
		return rows
	}

	kept := make([]model.FundAllocation, 0, len(rows))
	for _, r := range rows {
		if r.ReportDate != nil && r.ReportDate.Equal(latest) {
			kept = append(kept, r)
		}
	}
	return kept
}

func distinctFundCodes(holdings []model.Holding) []string {
	seen := make(map[string]bool, len(holdings))
	var codes []string
	for _, h := range holdings {
		if !seen[h.FundCode] {
			seen[h.FundCode] = true
			codes = append(codes, h.FundCode)
		}
	}
	return codes
}
