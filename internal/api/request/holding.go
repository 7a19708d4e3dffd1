package request

// CreateHoldingRequest represents the request body for recording a purchase lot.
type CreateHoldingRequest struct {
	FundCode     string  `json:"fund_code"`
	Platform     string  `json:"platform"`
	Shares       float64 `json:"shares"`
	CostPrice    float64 `json:"cost_price"`
	PurchaseDate string  `json:"purchase_date"`
}

// UpdateHoldingRequest is a partial update; nil fields are left unchanged.
// The fund of a lot cannot be changed.
type UpdateHoldingRequest struct {
	Platform     *string  `json:"platform,omitempty"`
	Shares       *float64 `json:"shares,omitempty"`
	CostPrice    *float64 `json:"cost_price,omitempty"`
	PurchaseDate *string  `json:"purchase_date,omitempty"`
}

// SnapshotUpdateRequest replaces a holding's shares and cost price with the
// figures currently shown by the platform. ChangeDate defaults to today.
type SnapshotUpdateRequest struct {
	Shares     float64 `json:"shares"`
	CostPrice  float64 `json:"cost_price"`
	ChangeDate string  `json:"change_date,omitempty"`
}
