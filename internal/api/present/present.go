// Package present rounds engine output for the HTTP layer. The engine and the
// services work in full precision; money and percentages leave the API with
// two decimals.
package present

import (
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// Round2 rounds v half away from zero to two decimals.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := Round2(*v)
	return &r
}

// Holding rounds the valuation fields of an enriched holding. Shares, cost
// price and NAV are kept as stored.
func Holding(h model.HoldingResponse) model.HoldingResponse {
	h.MarketValue = round2Ptr(h.MarketValue)
	h.Pnl = round2Ptr(h.Pnl)
	h.PnlPercent = round2Ptr(h.PnlPercent)
	return h
}

// Holdings rounds every holding in hs.
func Holdings(hs []model.HoldingResponse) []model.HoldingResponse {
	out := make([]model.HoldingResponse, len(hs))
	for i, h := range hs {
		out[i] = Holding(h)
	}
	return out
}

// PortfolioSummary rounds the portfolio totals.
func PortfolioSummary(s model.PortfolioSummary) model.PortfolioSummary {
	return model.PortfolioSummary{
		TotalValue: Round2(s.TotalValue),
		TotalCost:  Round2(s.TotalCost),
		TotalPnl:   Round2(s.TotalPnl),
		PnlPercent: Round2(s.PnlPercent),
	}
}

// Platforms rounds every platform row.
func Platforms(ps []model.PlatformSummary) []model.PlatformSummary {
	out := make([]model.PlatformSummary, len(ps))
	for i, p := range ps {
		p.MarketValue = Round2(p.MarketValue)
		p.Cost = Round2(p.Cost)
		p.Pnl = Round2(p.Pnl)
		out[i] = p
	}
	return out
}

// Snapshots rounds stored snapshots.
func Snapshots(ss []model.PortfolioSnapshot) []model.PortfolioSnapshot {
	out := make([]model.PortfolioSnapshot, len(ss))
	for i, s := range ss {
		out[i] = Snapshot(s)
	}
	return out
}

// Snapshot rounds one snapshot.
func Snapshot(s model.PortfolioSnapshot) model.PortfolioSnapshot {
	s.TotalValue = Round2(s.TotalValue)
	s.TotalCost = Round2(s.TotalCost)
	s.TotalPnl = Round2(s.TotalPnl)
	return s
}

// Allocation rounds category and contribution percentages and the coverage
// values. CoveredPercent is already rounded to one decimal by the aggregator.
func Allocation(a model.AllocationResult) model.AllocationResult {
	items := make([]model.AllocationItem, len(a.Items))
	for i, item := range a.Items {
		funds := make([]model.AllocationContribution, len(item.Funds))
		for j, f := range item.Funds {
			f.Percentage = Round2(f.Percentage)
			funds[j] = f
		}
		items[i] = model.AllocationItem{
			Category:   item.Category,
			Percentage: Round2(item.Percentage),
			Funds:      funds,
		}
	}
	a.Items = items
	a.Coverage.CoveredValue = Round2(a.Coverage.CoveredValue)
	a.Coverage.TotalValue = Round2(a.Coverage.TotalValue)
	return a
}

// PositionStatus rounds the budget status. The below/above flags were decided
// on full precision and are kept.
func PositionStatus(s model.PositionStatus) model.PositionStatus {
	s.TotalValue = Round2(s.TotalValue)
	s.TotalCost = Round2(s.TotalCost)
	s.AvailableCash = Round2(s.AvailableCash)
	s.PositionRatio = Round2(s.PositionRatio)
	return s
}

// Context rounds the portfolio context and every holding detail in it.
func Context(pc model.PortfolioContext) model.PortfolioContext {
	pc.TotalValue = Round2(pc.TotalValue)
	pc.TotalCost = Round2(pc.TotalCost)
	pc.AvailableCash = Round2(pc.AvailableCash)
	pc.PositionRatio = Round2(pc.PositionRatio)

	holdings := make([]model.HoldingDetail, len(pc.Holdings))
	for i, h := range pc.Holdings {
		h.Cost = Round2(h.Cost)
		h.MarketValue = Round2(h.MarketValue)
		h.Weight = Round2(h.Weight)
		holdings[i] = h
	}
	pc.Holdings = holdings
	return pc
}

// StrategyResult rounds suggestion amounts and every numeric metadata value,
// including the values of nested per-class maps.
func StrategyResult(r model.StrategyResult) model.StrategyResult {
	suggestions := make([]model.SuggestionItem, len(r.Suggestions))
	for i, s := range r.Suggestions {
		s.Amount = Round2(s.Amount)
		suggestions[i] = s
	}
	r.Suggestions = suggestions

	meta := make(map[string]any, len(r.Metadata))
	for k, v := range r.Metadata {
		meta[k] = roundValue(v)
	}
	r.Metadata = meta
	return r
}

func roundValue(v any) any {
	switch x := v.(type) {
	case float64:
		return Round2(x)
	case map[string]float64:
		out := make(map[string]float64, len(x))
		for k, f := range x {
			out[k] = Round2(f)
		}
		return out
	default:
		return v
	}
}
