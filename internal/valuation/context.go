package valuation

import (
	"maps"
	"time"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// ContextInput holds everything BuildContext needs.
// StrategyConfig is the stored configuration of the budget's active strategy
// and may be nil when none was stored.
type ContextInput struct {
	Holdings       []model.Holding
	Prices         PriceLookup
	Funds          FundLookup
	Budget         model.PositionBudget
	StrategyConfig map[string]any
	AsOf           time.Time
}

// BuildContext values every holding against its latest NAV and relates the
// total to the position budget.
//
// Holdings without a known NAV contribute nothing to TotalValue but are always
// part of TotalCost. Every ratio guards its denominator and degrades to 0, so an
// empty portfolio or an unset budget yields a valid all-zero context.
// The result depends only on the input: calling it twice with the same input
// yields identical contexts.
func BuildContext(in ContextInput) model.PortfolioContext {
	details := make([]model.HoldingDetail, 0, len(in.Holdings))
	var totalValue, totalCost float64

	for _, h := range in.Holdings {
		cost := h.Cost()
		nav, priced := latestNav(in.Prices, h.FundCode)

		var marketValue float64
		if priced {
			marketValue = h.Shares * nav
		}

		totalCost += cost
		totalValue += marketValue

		fund, _ := fundMeta(in.Funds, h.FundCode)
		details = append(details, model.HoldingDetail{
			HoldingID:   h.ID,
			FundCode:    h.FundCode,
			FundName:    fund.Name,
			FundType:    fund.FundType,
			Platform:    h.Platform,
			Shares:      h.Shares,
			CostPrice:   h.CostPrice,
			Cost:        cost,
			MarketValue: marketValue,
			Priced:      priced,
		})
	}

	for i := range details {
		if totalValue != 0 {
			details[i].Weight = details[i].MarketValue / totalValue * 100
		}
	}

	budget := in.Budget.TotalBudget
	var positionRatio float64
	if budget > 0 {
		positionRatio = totalValue / budget * 100
	}

	cfg := map[string]any{}
	if in.StrategyConfig != nil {
		cfg = maps.Clone(in.StrategyConfig)
	}

	return model.PortfolioContext{
		AsOf:              in.AsOf,
		TotalBudget:       budget,
		TotalValue:        totalValue,
		TotalCost:         totalCost,
		AvailableCash:     max(budget-totalValue, 0),
		PositionRatio:     positionRatio,
		TargetPositionMin: in.Budget.TargetPositionMin,
		TargetPositionMax: in.Budget.TargetPositionMax,
		Holdings:          details,
		StrategyConfig:    cfg,
	}
}
