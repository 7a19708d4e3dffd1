package strategy

import (
	"fmt"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// SimpleStrategyName is the registry key of SimpleStrategy.
const SimpleStrategyName = "simple"

// SimpleStrategy judges only the aggregate position ratio against the budget's
// target band. It never recommends individual funds and takes no config.
type SimpleStrategy struct{}

// NewSimpleStrategy creates a SimpleStrategy.
func NewSimpleStrategy() *SimpleStrategy {
	return &SimpleStrategy{}
}

func (s *SimpleStrategy) Name() string        { return SimpleStrategyName }
func (s *SimpleStrategy) DisplayName() string { return "Simple position band" }
func (s *SimpleStrategy) Description() string {
	return "Compares the overall position ratio with the target band and suggests adding to or trimming the position. Does not recommend specific funds."
}
func (s *SimpleStrategy) ConfigSchema() map[string]any { return map[string]any{} }

// Evaluate implements Strategy.
func (s *SimpleStrategy) Evaluate(ctx model.PortfolioContext) model.StrategyResult {
	budget := ctx.TotalBudget
	if budget <= 0 {
		return newResult(s.Name(), noBudgetSummary)
	}

	ratio := ctx.PositionRatio
	lo, hi := ctx.TargetPositionMin, ctx.TargetPositionMax

	switch {
	case ratio < lo:
		gap := budget*lo/100 - ctx.TotalValue
		res := newResult(s.Name(), fmt.Sprintf(
			"Position %.1f%% is below the minimum %.1f%%. Consider adding about %s.",
			ratio, lo, money(gap)))
		res.Metadata["action"] = model.ActionBuy
		res.Metadata["gap"] = gap
		return res

	case ratio > hi:
		excess := ctx.TotalValue - budget*hi/100
		res := newResult(s.Name(), fmt.Sprintf(
			"Position %.1f%% is above the maximum %.1f%%. Consider trimming about %s.",
			ratio, hi, money(excess)))
		res.Metadata["action"] = model.ActionSell
		res.Metadata["excess"] = excess
		return res
	}

	res := newResult(s.Name(), fmt.Sprintf(
		"Position %.1f%% is within the target band [%.1f%%, %.1f%%]. No action needed.",
		ratio, lo, hi))
	res.Metadata["action"] = model.ActionHold
	return res
}
