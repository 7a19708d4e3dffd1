package valuation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/valuation"
)

var asOf = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func lot(id, fundCode string, shares, costPrice float64) model.Holding {
	return model.Holding{
		ID:           id,
		FundCode:     fundCode,
		Platform:     "alipay",
		Shares:       shares,
		CostPrice:    costPrice,
		PurchaseDate: time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC),
	}
}

// TestBuildContext_Totals tests valuation totals for priced and unpriced lots.
//
// WHY: An unpriced lot must never inflate the market value, but its money was
// still spent, so it has to show up in the cost basis.
func TestBuildContext_Totals(t *testing.T) {
	t.Run("unpriced lot counts toward cost but not value", func(t *testing.T) {
		ctx := valuation.BuildContext(valuation.ContextInput{
			Holdings: []model.Holding{
				lot("h1", "000001", 1000, 1.5),
				lot("h2", "000002", 500, 2.0),
			},
			Prices: valuation.PriceMap{"000001": 2.0},
			Budget: model.PositionBudget{TotalBudget: 10000, TargetPositionMin: 60, TargetPositionMax: 80},
			AsOf:   asOf,
		})

		assert.InDelta(t, 2000.0, ctx.TotalValue, 1e-9)
		assert.InDelta(t, 2500.0, ctx.TotalCost, 1e-9)
		assert.InDelta(t, 8000.0, ctx.AvailableCash, 1e-9)
		assert.InDelta(t, 20.0, ctx.PositionRatio, 1e-9)
		assert.Equal(t, 60.0, ctx.TargetPositionMin)
		assert.Equal(t, 80.0, ctx.TargetPositionMax)

		require.Len(t, ctx.Holdings, 2)
		assert.True(t, ctx.Holdings[0].Priced)
		assert.InDelta(t, 100.0, ctx.Holdings[0].Weight, 1e-9)
		assert.False(t, ctx.Holdings[1].Priced)
		assert.Equal(t, 0.0, ctx.Holdings[1].MarketValue)
		assert.Equal(t, 0.0, ctx.Holdings[1].Weight)
		assert.InDelta(t, 1000.0, ctx.Holdings[1].Cost, 1e-9)
	})

	t.Run("weights split by market value", func(t *testing.T) {
		ctx := valuation.BuildContext(valuation.ContextInput{
			Holdings: []model.Holding{
				lot("h1", "000001", 300, 1),
				lot("h2", "000002", 100, 1),
			},
			Prices: valuation.PriceMap{"000001": 1, "000002": 1},
			Budget: model.PositionBudget{TotalBudget: 1000},
		})

		assert.InDelta(t, 75.0, ctx.Holdings[0].Weight, 1e-9)
		assert.InDelta(t, 25.0, ctx.Holdings[1].Weight, 1e-9)
	})

	t.Run("fund metadata is attached to each lot", func(t *testing.T) {
		ctx := valuation.BuildContext(valuation.ContextInput{
			Holdings: []model.Holding{lot("h1", "000001", 10, 1)},
			Prices:   valuation.PriceMap{"000001": 1},
			Funds:    valuation.FundMap{"000001": {Code: "000001", Name: "CSI 300 Index", FundType: "指数型-股票"}},
		})

		require.Len(t, ctx.Holdings, 1)
		assert.Equal(t, "CSI 300 Index", ctx.Holdings[0].FundName)
		assert.Equal(t, "指数型-股票", ctx.Holdings[0].FundType)
	})
}

// TestBuildContext_Degenerate tests the guarded branches.
//
// WHY: The context is built on every budget page load, including for new
// users with no budget and no holdings. It must never divide by zero.
func TestBuildContext_Degenerate(t *testing.T) {
	tests := []struct {
		name   string
		budget float64
	}{
		{"zero budget", 0},
		{"negative budget", -500},
	}

	for _, tt := range tests {
		t.Run(tt.name+" yields zero position ratio", func(t *testing.T) {
			ctx := valuation.BuildContext(valuation.ContextInput{
				Holdings: []model.Holding{lot("h1", "000001", 1000, 1)},
				Prices:   valuation.PriceMap{"000001": 1.2},
				Budget:   model.PositionBudget{TotalBudget: tt.budget},
			})

			assert.Equal(t, 0.0, ctx.PositionRatio)
			assert.Equal(t, 0.0, ctx.AvailableCash)
			assert.InDelta(t, 1200.0, ctx.TotalValue, 1e-9)
		})
	}

	t.Run("empty holdings and nil lookups", func(t *testing.T) {
		ctx := valuation.BuildContext(valuation.ContextInput{
			Budget: model.NewDefaultBudget(),
		})

		assert.Equal(t, 0.0, ctx.TotalValue)
		assert.Equal(t, 0.0, ctx.TotalCost)
		assert.Equal(t, 0.0, ctx.PositionRatio)
		assert.NotNil(t, ctx.Holdings)
		assert.Empty(t, ctx.Holdings)
		assert.NotNil(t, ctx.StrategyConfig)
		assert.Empty(t, ctx.StrategyConfig)
	})

	t.Run("available cash never goes negative", func(t *testing.T) {
		ctx := valuation.BuildContext(valuation.ContextInput{
			Holdings: []model.Holding{lot("h1", "000001", 2000, 1)},
			Prices:   valuation.PriceMap{"000001": 1},
			Budget:   model.PositionBudget{TotalBudget: 1000},
		})

		assert.Equal(t, 0.0, ctx.AvailableCash)
		assert.InDelta(t, 200.0, ctx.PositionRatio, 1e-9)
	})
}

// TestBuildContext_Idempotent tests that the builder is a pure function.
//
// WHY: Strategies are compared across requests; hidden state would make two
// identical snapshots produce different advice.
func TestBuildContext_Idempotent(t *testing.T) {
	in := valuation.ContextInput{
		Holdings: []model.Holding{
			lot("h1", "000001", 1234.56, 1.1),
			lot("h2", "000002", 789.01, 2.2),
			lot("h3", "000003", 10, 3.3),
		},
		Prices:         valuation.PriceMap{"000001": 1.2345, "000002": 2.3456},
		Funds:          valuation.FundMap{"000001": {Code: "000001", Name: "A"}},
		Budget:         model.PositionBudget{TotalBudget: 5000, TargetPositionMin: 40, TargetPositionMax: 90},
		StrategyConfig: map[string]any{"execution_window_days": 3},
		AsOf:           asOf,
	}

	first := valuation.BuildContext(in)
	second := valuation.BuildContext(in)

	assert.Equal(t, first, second)
}

// TestBuildContext_StrategyConfigIsolated tests that the context owns its config map.
func TestBuildContext_StrategyConfigIsolated(t *testing.T) {
	stored := map[string]any{"min_position_for_rebalance": 70.0}

	ctx := valuation.BuildContext(valuation.ContextInput{StrategyConfig: stored})
	ctx.StrategyConfig["min_position_for_rebalance"] = 10.0

	assert.Equal(t, 70.0, stored["min_position_for_rebalance"])
}
