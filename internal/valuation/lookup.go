// Package valuation turns holdings, latest NAVs and per-fund category breakdowns
// into portfolio-level valuation snapshots.
//
// Everything in this package is a pure computation over data already loaded into
// memory: no I/O, no logging, no hidden state. Callers own data loading and the
// rounding of monetary and percentage fields at their presentation boundary.
package valuation

import "github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"

// PriceLookup resolves the latest known NAV of a fund.
// The boolean is false when the fund has no recorded price, which is distinct
// from a recorded price of zero.
type PriceLookup interface {
	LatestNav(fundCode string) (float64, bool)
}

// FundLookup resolves fund metadata by fund code.
type FundLookup interface {
	Fund(fundCode string) (model.Fund, bool)
}

// AllocationLookup resolves a fund's category rows for one dimension.
// Rows may span several report dates.
type AllocationLookup interface {
	Allocations(fundCode string, dimension model.Dimension) []model.FundAllocation
}

// PriceMap is a PriceLookup backed by a fund code -> latest NAV map.
type PriceMap map[string]float64

// LatestNav implements PriceLookup.
func (m PriceMap) LatestNav(fundCode string) (float64, bool) {
	nav, ok := m[fundCode]
	return nav, ok
}

// FundMap is a FundLookup backed by a fund code -> fund map.
type FundMap map[string]model.Fund

// Fund implements FundLookup.
func (m FundMap) Fund(fundCode string) (model.Fund, bool) {
	f, ok := m[fundCode]
	return f, ok
}

// AllocationMap is an AllocationLookup backed by a fund code -> rows map.
// Rows of every dimension may be mixed; Allocations filters them.
type AllocationMap map[string][]model.FundAllocation

// Allocations implements AllocationLookup.
func (m AllocationMap) Allocations(fundCode string, dimension model.Dimension) []model.FundAllocation {
	var rows []model.FundAllocation
	for _, a := range m[fundCode] {
		if a.Dimension == dimension {
			rows = append(rows, a)
		}
	}
	return rows
}

func latestNav(prices PriceLookup, fundCode string) (float64, bool) {
	if prices == nil {
		return 0, false
	}
	return prices.LatestNav(fundCode)
}

func fundMeta(funds FundLookup, fundCode string) (model.Fund, bool) {
	if funds == nil {
		return model.Fund{}, false
	}
	return funds.Fund(fundCode)
}
