package model

import "time"

// Fund represents a fund from the database.
// FundType is the free-text classification published by the fund house and is
// only used for heuristic asset-class inference.
type Fund struct {
	Code              string     `json:"fund_code"`
	Name              string     `json:"fund_name"`
	FundType          string     `json:"fund_type"`
	ManagementCompany string     `json:"management_company"`
	LastUpdated       *time.Time `json:"last_updated,omitempty"`
}

// FundNav is a single net asset value point of a fund.
type FundNav struct {
	FundCode string    `json:"fund_code"`
	Date     time.Time `json:"date"`
	Nav      float64   `json:"nav"`
}

// FundDetail combines fund metadata with its most recent NAV.
// LatestNav and LatestNavDate are nil when no price has been recorded.
type FundDetail struct {
	Fund
	LatestNav     *float64   `json:"latest_nav"`
	LatestNavDate *time.Time `json:"latest_nav_date"`
}

// FundTopHolding is one stock among the largest positions a fund discloses in
// its periodic report.
type FundTopHolding struct {
	ID         string     `json:"id"`
	FundCode   string     `json:"fund_code"`
	StockCode  string     `json:"stock_code"`
	StockName  string     `json:"stock_name"`
	Percentage float64    `json:"percentage"`
	ReportDate *time.Time `json:"report_date,omitempty"`
}
