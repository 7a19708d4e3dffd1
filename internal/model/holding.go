package model

import "time"

// Holding is a single purchase lot of fund shares.
type Holding struct {
	ID           string    `json:"id"`
	FundCode     string    `json:"fund_code"`
	Platform     string    `json:"platform"`
	Shares       float64   `json:"shares"`
	CostPrice    float64   `json:"cost_price"`
	PurchaseDate time.Time `json:"purchase_date"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Cost returns the cost basis of the lot (shares x cost price).
func (h Holding) Cost() float64 {
	return h.Shares * h.CostPrice
}

// HoldingResponse is a holding enriched with fund name and latest valuation.
// Valuation fields are nil when the fund has no known NAV.
type HoldingResponse struct {
	Holding
	FundName      string     `json:"fund_name"`
	LatestNav     *float64   `json:"latest_nav"`
	LatestNavDate *time.Time `json:"latest_nav_date"`
	MarketValue   *float64   `json:"market_value"`
	Pnl           *float64   `json:"pnl"`
	PnlPercent    *float64   `json:"pnl_percent"`
}

// HoldingChangeLog records a snapshot update of a holding's shares and cost price.
type HoldingChangeLog struct {
	ID           string    `json:"id"`
	HoldingID    string    `json:"holding_id"`
	ChangeDate   time.Time `json:"change_date"`
	OldShares    float64   `json:"old_shares"`
	NewShares    float64   `json:"new_shares"`
	OldCostPrice float64   `json:"old_cost_price"`
	NewCostPrice float64   `json:"new_cost_price"`
	SharesDiff   float64   `json:"shares_diff"`
	CreatedAt    time.Time `json:"created_at"`
}
