package model

import "time"

// Default values applied when the position budget row is created lazily.
const (
	DefaultTotalBudget       = 0.0
	DefaultTargetPositionMin = 0.0
	DefaultTargetPositionMax = 100.0
	DefaultActiveStrategy    = "simple"
)

// PositionBudget is the singleton investment budget and target position band.
type PositionBudget struct {
	ID                int       `json:"id"`
	TotalBudget       float64   `json:"total_budget"`
	TargetPositionMin float64   `json:"target_position_min"`
	TargetPositionMax float64   `json:"target_position_max"`
	ActiveStrategy    string    `json:"active_strategy"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewDefaultBudget returns a budget populated with the default band and strategy.
func NewDefaultBudget() PositionBudget {
	return PositionBudget{
		TotalBudget:       DefaultTotalBudget,
		TargetPositionMin: DefaultTargetPositionMin,
		TargetPositionMax: DefaultTargetPositionMax,
		ActiveStrategy:    DefaultActiveStrategy,
	}
}

// BudgetChangeLog records a change of the total budget amount.
type BudgetChangeLog struct {
	ID        string    `json:"id"`
	OldBudget float64   `json:"old_budget"`
	NewBudget float64   `json:"new_budget"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// StrategyConfig is the stored configuration override of one strategy.
type StrategyConfig struct {
	StrategyName string         `json:"strategy_name"`
	Config       map[string]any `json:"config"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// PositionStatus is the budget together with the current valuation against it.
type PositionStatus struct {
	TotalBudget       float64 `json:"total_budget"`
	TotalValue        float64 `json:"total_value"`
	TotalCost         float64 `json:"total_cost"`
	AvailableCash     float64 `json:"available_cash"`
	PositionRatio     float64 `json:"position_ratio"`
	TargetPositionMin float64 `json:"target_position_min"`
	TargetPositionMax float64 `json:"target_position_max"`
	ActiveStrategy    string  `json:"active_strategy"`
	IsBelowMin        bool    `json:"is_below_min"`
	IsAboveMax        bool    `json:"is_above_max"`
}
