package request

// UpdateBudgetRequest is a partial update of the position budget.
// Reason is recorded in the change log when TotalBudget changes.
type UpdateBudgetRequest struct {
	TotalBudget       *float64 `json:"total_budget,omitempty"`
	TargetPositionMin *float64 `json:"target_position_min,omitempty"`
	TargetPositionMax *float64 `json:"target_position_max,omitempty"`
	Reason            string   `json:"reason,omitempty"`
}

// SetActiveStrategyRequest selects the strategy used for suggestions.
type SetActiveStrategyRequest struct {
	StrategyName string `json:"strategy_name"`
}

// UpdateStrategyConfigRequest replaces the stored config of a strategy.
type UpdateStrategyConfigRequest struct {
	Config map[string]any `json:"config"`
}
