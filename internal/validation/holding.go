package validation

import (
	"strings"
	"time"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/request"
)

// ValidateCreateHolding validates a holding creation request.
//
// Required fields:
//   - fund_code: 1 to 16 letters, digits, dots, dashes or underscores
//   - platform: non-empty, at most 50 characters
//   - shares, cost_price: positive
//   - purchase_date: YYYY-MM-DD
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateHolding(req request.CreateHoldingRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.FundCode) == "" {
		errors["fund_code"] = "fund_code is required"
	} else if !ValidFundCode(req.FundCode) {
		errors["fund_code"] = "fund_code must be 1-16 letters or digits"
	}

	validatePlatform(errors, req.Platform)

	if req.Shares <= 0.0 {
		errors["shares"] = "shares must be positive"
	}
	if req.CostPrice <= 0.0 {
		errors["cost_price"] = "cost_price must be positive"
	}

	if strings.TrimSpace(req.PurchaseDate) == "" {
		errors["purchase_date"] = "purchase_date is required"
	} else if _, err := time.Parse(DateLayout, req.PurchaseDate); err != nil {
		errors["purchase_date"] = "purchase_date must be YYYY-MM-DD"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateUpdateHolding validates a partial holding update.
// All fields are optional, but if provided they must meet the same constraints as create.
func ValidateUpdateHolding(req request.UpdateHoldingRequest) error {
	errors := make(map[string]string)

	if req.Platform != nil {
		validatePlatform(errors, *req.Platform)
	}
	if req.Shares != nil && *req.Shares <= 0.0 {
		errors["shares"] = "shares must be positive"
	}
	if req.CostPrice != nil && *req.CostPrice <= 0.0 {
		errors["cost_price"] = "cost_price must be positive"
	}
	if req.PurchaseDate != nil {
		if _, err := time.Parse(DateLayout, *req.PurchaseDate); err != nil {
			errors["purchase_date"] = "purchase_date must be YYYY-MM-DD"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateSnapshotUpdate validates a snapshot update of a holding.
func ValidateSnapshotUpdate(req request.SnapshotUpdateRequest) error {
	errors := make(map[string]string)

	if req.Shares <= 0.0 {
		errors["shares"] = "shares must be positive"
	}
	if req.CostPrice <= 0.0 {
		errors["cost_price"] = "cost_price must be positive"
	}
	if req.ChangeDate != "" {
		if _, err := time.Parse(DateLayout, req.ChangeDate); err != nil {
			errors["change_date"] = "change_date must be YYYY-MM-DD"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func validatePlatform(errors map[string]string, platform string) {
	if strings.TrimSpace(platform) == "" {
		errors["platform"] = "platform is required"
	} else if len(platform) > 50 {
		errors["platform"] = "platform must be 50 characters or less"
	}
}
