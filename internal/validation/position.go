package validation

import (
	"strings"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/request"
)

// ValidateUpdateBudget validates a partial budget update.
// Band bounds must lie in [0, 100]; when both are given min may not exceed max.
// The service re-checks the band against stored values.
func ValidateUpdateBudget(req request.UpdateBudgetRequest) error {
	errors := make(map[string]string)

	if req.TotalBudget != nil && *req.TotalBudget < 0 {
		errors["total_budget"] = "total_budget cannot be negative"
	}
	if req.TargetPositionMin != nil && (*req.TargetPositionMin < 0 || *req.TargetPositionMin > 100) {
		errors["target_position_min"] = "target_position_min must be between 0 and 100"
	}
	if req.TargetPositionMax != nil && (*req.TargetPositionMax < 0 || *req.TargetPositionMax > 100) {
		errors["target_position_max"] = "target_position_max must be between 0 and 100"
	}
	if req.TargetPositionMin != nil && req.TargetPositionMax != nil && *req.TargetPositionMin > *req.TargetPositionMax {
		errors["target_position_min"] = "target_position_min cannot exceed target_position_max"
	}
	if len(req.Reason) > 500 {
		errors["reason"] = "reason must be 500 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateSetActiveStrategy validates a strategy selection. Whether the strategy
// exists is decided by the registry.
func ValidateSetActiveStrategy(req request.SetActiveStrategyRequest) error {
	if strings.TrimSpace(req.StrategyName) == "" {
		return &Error{Fields: map[string]string{"strategy_name": "strategy_name is required"}}
	}
	return nil
}
