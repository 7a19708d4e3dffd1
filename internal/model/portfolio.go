package model

import "time"

// PortfolioSummary represents the current value of all holdings against their cost.
type PortfolioSummary struct {
	TotalValue float64 `json:"total_value"`
	TotalCost  float64 `json:"total_cost"`
	TotalPnl   float64 `json:"total_pnl"`
	PnlPercent float64 `json:"pnl_percent"`
}

// PlatformSummary aggregates holdings held on one platform.
type PlatformSummary struct {
	Platform    string  `json:"platform"`
	MarketValue float64 `json:"market_value"`
	Cost        float64 `json:"cost"`
	Pnl         float64 `json:"pnl"`
	Count       int     `json:"count"`
}

// PortfolioSnapshot is the stored daily valuation of the portfolio.
type PortfolioSnapshot struct {
	Date       time.Time `json:"date"`
	TotalValue float64   `json:"total_value"`
	TotalCost  float64   `json:"total_cost"`
	TotalPnl   float64   `json:"total_pnl"`
}
