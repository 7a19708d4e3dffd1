package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/request"
)

func validCreateHolding() request.CreateHoldingRequest {
	return request.CreateHoldingRequest{
		FundCode:     "000001",
		Platform:     "Alipay",
		Shares:       1000,
		CostPrice:    1.5,
		PurchaseDate: "2024-03-01",
	}
}

// TestValidateCreateHolding tests the rules for a new purchase lot.
//
// WHY: A lot with zero shares or cost would divide by zero in PnL percentages
// further down, so it must be stopped at the boundary.
func TestValidateCreateHolding(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*request.CreateHoldingRequest)
		wantField string
	}{
		{"valid", func(*request.CreateHoldingRequest) {}, ""},
		{"missing fund code", func(r *request.CreateHoldingRequest) { r.FundCode = "" }, "fund_code"},
		{"malformed fund code", func(r *request.CreateHoldingRequest) { r.FundCode = "fund 1" }, "fund_code"},
		{"blank platform", func(r *request.CreateHoldingRequest) { r.Platform = "  " }, "platform"},
		{"long platform", func(r *request.CreateHoldingRequest) { r.Platform = strings.Repeat("p", 51) }, "platform"},
		{"zero shares", func(r *request.CreateHoldingRequest) { r.Shares = 0 }, "shares"},
		{"negative cost", func(r *request.CreateHoldingRequest) { r.CostPrice = -1 }, "cost_price"},
		{"missing date", func(r *request.CreateHoldingRequest) { r.PurchaseDate = "" }, "purchase_date"},
		{"malformed date", func(r *request.CreateHoldingRequest) { r.PurchaseDate = "2024-13-01" }, "purchase_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCreateHolding()
			tt.modify(&req)

			err := ValidateCreateHolding(req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), tt.wantField)
		})
	}

	t.Run("reports every bad field", func(t *testing.T) {
		fields := fieldErrors(t, ValidateCreateHolding(request.CreateHoldingRequest{}))
		assert.Len(t, fields, 5)
	})
}

func TestValidateUpdateHolding(t *testing.T) {
	tests := []struct {
		name      string
		req       request.UpdateHoldingRequest
		wantField string
	}{
		{"empty update", request.UpdateHoldingRequest{}, ""},
		{"new platform", request.UpdateHoldingRequest{Platform: ptr("Bank")}, ""},
		{"blank platform", request.UpdateHoldingRequest{Platform: ptr("")}, "platform"},
		{"zero shares", request.UpdateHoldingRequest{Shares: ptr(0.0)}, "shares"},
		{"zero cost", request.UpdateHoldingRequest{CostPrice: ptr(0.0)}, "cost_price"},
		{"malformed date", request.UpdateHoldingRequest{PurchaseDate: ptr("yesterday")}, "purchase_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUpdateHolding(tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), tt.wantField)
		})
	}
}

func TestValidateSnapshotUpdate(t *testing.T) {
	tests := []struct {
		name      string
		req       request.SnapshotUpdateRequest
		wantField string
	}{
		{"today by default", request.SnapshotUpdateRequest{Shares: 10, CostPrice: 1}, ""},
		{"explicit date", request.SnapshotUpdateRequest{Shares: 10, CostPrice: 1, ChangeDate: "2024-05-01"}, ""},
		{"zero shares", request.SnapshotUpdateRequest{CostPrice: 1}, "shares"},
		{"zero cost", request.SnapshotUpdateRequest{Shares: 10}, "cost_price"},
		{"malformed date", request.SnapshotUpdateRequest{Shares: 10, CostPrice: 1, ChangeDate: "01-05-2024"}, "change_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSnapshotUpdate(tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), tt.wantField)
		})
	}
}
