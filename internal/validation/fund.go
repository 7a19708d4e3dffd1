package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// ValidateUpdateFund validates fund metadata.
func ValidateUpdateFund(req request.UpdateFundRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.FundName) == "" {
		errors["fund_name"] = "fund_name is required"
	} else if len(req.FundName) > 200 {
		errors["fund_name"] = "fund_name must be 200 characters or less"
	}
	if len(req.FundType) > 100 {
		errors["fund_type"] = "fund_type must be 100 characters or less"
	}
	if len(req.ManagementCompany) > 200 {
		errors["management_company"] = "management_company must be 200 characters or less"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateImportNavs validates a batch of NAV points.
// Every point needs a YYYY-MM-DD date and a positive NAV.
func ValidateImportNavs(req request.ImportNavsRequest) error {
	if len(req.Navs) == 0 {
		return &Error{Fields: map[string]string{"navs": "at least one nav point is required"}}
	}

	errors := make(map[string]string)
	for i, p := range req.Navs {
		if _, err := time.Parse(DateLayout, p.Date); err != nil {
			errors[fmt.Sprintf("navs[%d].date", i)] = "date must be YYYY-MM-DD"
		}
		if p.Nav <= 0 {
			errors[fmt.Sprintf("navs[%d].nav", i)] = "nav must be positive"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateAllocationOverride validates manually entered allocation rows.
// Percentages must lie in [0, 100] and sum to at most 100 per dimension.
func ValidateAllocationOverride(entries []request.AllocationEntry) error {
	if len(entries) == 0 {
		return &Error{Fields: map[string]string{"allocations": "at least one allocation is required"}}
	}

	errors := make(map[string]string)
	sums := make(map[string]float64)
	for i, e := range entries {
		if _, err := model.ParseDimension(e.Dimension); err != nil {
			errors[fmt.Sprintf("[%d].dimension", i)] = fmt.Sprintf("invalid dimension: %s", e.Dimension)
		}
		if strings.TrimSpace(e.Category) == "" {
			errors[fmt.Sprintf("[%d].category", i)] = "category is required"
		}
		if e.Percentage < 0 || e.Percentage > 100 {
			errors[fmt.Sprintf("[%d].percentage", i)] = "percentage must be between 0 and 100"
		}
		if e.ReportDate != "" {
			if _, err := time.Parse(DateLayout, e.ReportDate); err != nil {
				errors[fmt.Sprintf("[%d].report_date", i)] = "report_date must be YYYY-MM-DD"
			}
		}
		sums[e.Dimension] += e.Percentage
	}
	for dim, sum := range sums {
		// Published breakdowns are rounded, so allow a little slack.
		if sum > 100.5 {
			errors[dim] = fmt.Sprintf("percentages sum to %.2f, more than 100", sum)
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

// ValidateTopHoldings validates a top holdings disclosure. Stock codes must be
// unique and the percentages of NAV may not add up to more than 100.
func ValidateTopHoldings(entries []request.TopHoldingEntry) error {
	if len(entries) == 0 {
		return &Error{Fields: map[string]string{"top_holdings": "at least one holding is required"}}
	}

	errors := make(map[string]string)
	seen := make(map[string]bool, len(entries))
	var sum float64
	for i, e := range entries {
		code := strings.TrimSpace(e.StockCode)
		switch {
		case code == "":
			errors[fmt.Sprintf("[%d].stock_code", i)] = "stock_code is required"
		case len(code) > 20:
			errors[fmt.Sprintf("[%d].stock_code", i)] = "stock_code must be 20 characters or less"
		case seen[code]:
			errors[fmt.Sprintf("[%d].stock_code", i)] = fmt.Sprintf("duplicate stock_code: %s", code)
		}
		seen[code] = true
		if len(e.StockName) > 100 {
			errors[fmt.Sprintf("[%d].stock_name", i)] = "stock_name must be 100 characters or less"
		}
		if e.Percentage < 0 || e.Percentage > 100 {
			errors[fmt.Sprintf("[%d].percentage", i)] = "percentage must be between 0 and 100"
		}
		if e.ReportDate != "" {
			if _, err := time.Parse(DateLayout, e.ReportDate); err != nil {
				errors[fmt.Sprintf("[%d].report_date", i)] = "report_date must be YYYY-MM-DD"
			}
		}
		sum += e.Percentage
	}
	if sum > 100.5 {
		errors["top_holdings"] = fmt.Sprintf("percentages sum to %.2f, more than 100", sum)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
