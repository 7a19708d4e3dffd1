package model

import "time"

// Suggestion actions.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
	ActionHold = "hold"
)

// HoldingDetail is the valuation of one lot inside a PortfolioContext.
// Weight is the lot's share of total market value in percent.
type HoldingDetail struct {
	HoldingID   string  `json:"holding_id"`
	FundCode    string  `json:"fund_code"`
	FundName    string  `json:"fund_name"`
	FundType    string  `json:"fund_type"`
	Platform    string  `json:"platform"`
	Shares      float64 `json:"shares"`
	CostPrice   float64 `json:"cost_price"`
	Cost        float64 `json:"cost"`
	MarketValue float64 `json:"market_value"`
	Priced      bool    `json:"priced"`
	Weight      float64 `json:"weight"`
}

// PortfolioContext is the valuation snapshot every strategy evaluates.
// AsOf is the only time-dependent field and is supplied by the caller.
type PortfolioContext struct {
	AsOf              time.Time       `json:"as_of"`
	TotalBudget       float64         `json:"total_budget"`
	TotalValue        float64         `json:"total_value"`
	TotalCost         float64         `json:"total_cost"`
	AvailableCash     float64         `json:"available_cash"`
	PositionRatio     float64         `json:"position_ratio"`
	TargetPositionMin float64         `json:"target_position_min"`
	TargetPositionMax float64         `json:"target_position_max"`
	Holdings          []HoldingDetail `json:"holdings"`
	StrategyConfig    map[string]any  `json:"strategy_config"`
}

// SuggestionItem is a single buy/sell/hold recommendation.
type SuggestionItem struct {
	FundCode string  `json:"fund_code"`
	FundName string  `json:"fund_name"`
	Action   string  `json:"action"`
	Amount   float64 `json:"amount"`
	Reason   string  `json:"reason"`
}

// StrategyResult is the outcome of evaluating a strategy.
type StrategyResult struct {
	StrategyName string           `json:"strategy_name"`
	Summary      string           `json:"summary"`
	Suggestions  []SuggestionItem `json:"suggestions"`
	Metadata     map[string]any   `json:"extra"`
}

// StrategyInfo describes a registered strategy.
type StrategyInfo struct {
	Name         string         `json:"name"`
	DisplayName  string         `json:"display_name"`
	Description  string         `json:"description"`
	ConfigSchema map[string]any `json:"config_schema"`
}
