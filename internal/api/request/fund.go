package request

// UpdateFundRequest sets the descriptive metadata of a fund.
type UpdateFundRequest struct {
	FundName          string `json:"fund_name"`
	FundType          string `json:"fund_type"`
	ManagementCompany string `json:"management_company"`
}

// NavPoint is one imported net asset value.
type NavPoint struct {
	Date string  `json:"date"`
	Nav  float64 `json:"nav"`
}

// ImportNavsRequest carries NAV points of one fund. Existing dates are overwritten.
type ImportNavsRequest struct {
	Navs []NavPoint `json:"navs"`
}

// AllocationEntry is one manually entered category share.
type AllocationEntry struct {
	Dimension  string  `json:"dimension"`
	Category   string  `json:"category"`
	Percentage float64 `json:"percentage"`
	ReportDate string  `json:"report_date,omitempty"`
}

// OverrideAllocationsRequest carries manually entered rows. The rows of each
// dimension present replace the fund's stored rows on that dimension.
type OverrideAllocationsRequest struct {
	Allocations []AllocationEntry `json:"allocations"`
}

// TopHoldingEntry is one disclosed stock position of a fund.
type TopHoldingEntry struct {
	StockCode  string  `json:"stock_code"`
	StockName  string  `json:"stock_name"`
	Percentage float64 `json:"percentage"`
	ReportDate string  `json:"report_date,omitempty"`
}

// ReplaceTopHoldingsRequest carries a full disclosure that replaces the stored one.
type ReplaceTopHoldingsRequest struct {
	TopHoldings []TopHoldingEntry `json:"top_holdings"`
}
