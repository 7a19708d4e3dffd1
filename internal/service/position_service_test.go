package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/strategy"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

// TestPositionService_GetStatus tests the budget status view.
//
// WHY: A fresh install has no budget row; the status must still be served
// with the default band instead of failing, and GET requests must not write.
func TestPositionService_GetStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("serves default budget without writing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		status, err := svc.GetStatus(ctx)
		require.NoError(t, err)

		assert.Equal(t, 0.0, status.TotalBudget)
		assert.Equal(t, model.DefaultTargetPositionMin, status.TargetPositionMin)
		assert.Equal(t, model.DefaultTargetPositionMax, status.TargetPositionMax)
		assert.Equal(t, strategy.SimpleStrategyName, status.ActiveStrategy)
		assert.Equal(t, 0.0, status.PositionRatio)
		testutil.AssertRowCount(t, db, "position_budget", 0)

		_, err = svc.GetContext(ctx)
		require.NoError(t, err)
		_, err = svc.GetSuggestion(ctx)
		require.NoError(t, err)
		testutil.AssertRowCount(t, db, "position_budget", 0)
	})

	t.Run("creates budget row on first write", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		status, err := svc.UpdateBudget(ctx, request.UpdateBudgetRequest{TargetPositionMin: ptr(10.0)})
		require.NoError(t, err)

		assert.Equal(t, 10.0, status.TargetPositionMin)
		assert.Equal(t, model.DefaultTargetPositionMax, status.TargetPositionMax)
		testutil.AssertRowCount(t, db, "position_budget", 1)
	})

	t.Run("relates value to budget", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		testutil.SetBudget(t, db, 100000, 60, 80, strategy.SimpleStrategyName)
		fund := testutil.NewFund().Build(t, db)
		testutil.CreateNav(t, db, fund.Code, testutil.Date(2024, time.March, 1), 1.0)
		testutil.CreateHolding(t, db, fund.Code, 50000, 0.9)

		status, err := svc.GetStatus(ctx)
		require.NoError(t, err)

		assert.InDelta(t, 50000.0, status.TotalValue, 1e-9)
		assert.InDelta(t, 45000.0, status.TotalCost, 1e-9)
		assert.InDelta(t, 50000.0, status.AvailableCash, 1e-9)
		assert.InDelta(t, 50.0, status.PositionRatio, 1e-9)
		assert.True(t, status.IsBelowMin)
		assert.False(t, status.IsAboveMax)
	})
}

// TestPositionService_UpdateBudget tests partial budget updates and the change log.
//
// WHY: Only a change of the total amount is an auditable event; band edits and
// repeated submits of the same amount must not clutter the log.
func TestPositionService_UpdateBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("logs total budget change", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		status, err := svc.UpdateBudget(ctx, request.UpdateBudgetRequest{
			TotalBudget:       ptr(100000.0),
			TargetPositionMin: ptr(60.0),
			TargetPositionMax: ptr(80.0),
			Reason:            "annual bonus",
		})
		require.NoError(t, err)
		assert.Equal(t, 100000.0, status.TotalBudget)
		assert.Equal(t, 60.0, status.TargetPositionMin)
		assert.Equal(t, 80.0, status.TargetPositionMax)

		logs, err := svc.GetBudgetChangeLog(ctx)
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, 0.0, logs[0].OldBudget)
		assert.Equal(t, 100000.0, logs[0].NewBudget)
		assert.Equal(t, "annual bonus", logs[0].Reason)
	})

	t.Run("does not log unchanged total", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)
		testutil.SetBudget(t, db, 50000, 0, 100, strategy.SimpleStrategyName)

		_, err := svc.UpdateBudget(ctx, request.UpdateBudgetRequest{TotalBudget: ptr(50000.0)})
		require.NoError(t, err)
		_, err = svc.UpdateBudget(ctx, request.UpdateBudgetRequest{TargetPositionMin: ptr(40.0)})
		require.NoError(t, err)

		testutil.AssertRowCount(t, db, "budget_change_log", 0)
	})

	t.Run("rejects min above max", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)
		testutil.SetBudget(t, db, 50000, 60, 80, strategy.SimpleStrategyName)

		_, err := svc.UpdateBudget(ctx, request.UpdateBudgetRequest{
			TotalBudget:       ptr(70000.0),
			TargetPositionMin: ptr(90.0),
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidTargetBand)

		status, err := svc.GetStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, 50000.0, status.TotalBudget, "failed update must not be applied")
		testutil.AssertRowCount(t, db, "budget_change_log", 0)
	})
}

// TestPositionService_Strategies tests strategy selection and configuration.
//
// WHY: A stored config is read by every later evaluation. Invalid configs must
// be rejected at write time and unknown strategies must never become active.
func TestPositionService_Strategies(t *testing.T) {
	ctx := context.Background()

	t.Run("lists strategies by name", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		infos := svc.ListStrategies()
		require.Len(t, infos, 2)
		assert.Equal(t, strategy.AssetRebalanceStrategyName, infos[0].Name)
		assert.Equal(t, strategy.SimpleStrategyName, infos[1].Name)
		assert.NotEmpty(t, infos[0].ConfigSchema)
	})

	t.Run("sets active strategy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		status, err := svc.SetActiveStrategy(ctx, strategy.AssetRebalanceStrategyName)
		require.NoError(t, err)
		assert.Equal(t, strategy.AssetRebalanceStrategyName, status.ActiveStrategy)

		_, err = svc.SetActiveStrategy(ctx, "momentum")
		assert.ErrorIs(t, err, apperrors.ErrStrategyNotFound)

		status, err = svc.GetStatus(ctx)
		require.NoError(t, err)
		assert.Equal(t, strategy.AssetRebalanceStrategyName, status.ActiveStrategy)
	})

	t.Run("returns empty config when none stored", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		cfg, err := svc.GetStrategyConfig(ctx, strategy.AssetRebalanceStrategyName)
		require.NoError(t, err)
		assert.Equal(t, strategy.AssetRebalanceStrategyName, cfg.StrategyName)
		assert.NotNil(t, cfg.Config)
		assert.Empty(t, cfg.Config)

		_, err = svc.GetStrategyConfig(ctx, "momentum")
		assert.ErrorIs(t, err, apperrors.ErrStrategyNotFound)
	})

	t.Run("stores valid config and rejects invalid", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		_, err := svc.UpdateStrategyConfig(ctx, strategy.AssetRebalanceStrategyName, map[string]any{
			"execution_window_days": 0,
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidStrategyConfig)

		_, err = svc.UpdateStrategyConfig(ctx, strategy.AssetRebalanceStrategyName, map[string]any{
			"targets": map[string]any{"equity": map[string]any{"target": 60.0, "min": 65.0, "max": 75.0}},
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidStrategyConfig, "target outside its band")
		testutil.AssertRowCount(t, db, "strategy_config", 0)

		_, err = svc.UpdateStrategyConfig(ctx, strategy.AssetRebalanceStrategyName, map[string]any{
			"min_position_for_rebalance": 90,
		})
		require.NoError(t, err)

		cfg, err := svc.GetStrategyConfig(ctx, strategy.AssetRebalanceStrategyName)
		require.NoError(t, err)
		assert.Equal(t, 90.0, cfg.Config["min_position_for_rebalance"])
	})
}

// TestPositionService_GetContext tests the context the active strategy sees.
//
// WHY: Strategies are pure functions of the context; the as-of date and the
// active strategy's stored config must be threaded through unchanged.
func TestPositionService_GetContext(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 29, 22, 15, 0, 0, time.UTC)

	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPositionService(t, db).WithClock(testutil.FixedClock(now))

	testutil.SetBudget(t, db, 10000, 0, 100, strategy.AssetRebalanceStrategyName)
	_, err := svc.UpdateStrategyConfig(ctx, strategy.AssetRebalanceStrategyName, map[string]any{
		"execution_window_days": 3,
	})
	require.NoError(t, err)

	fund := testutil.NewFund().WithName("Index Fund").Build(t, db)
	testutil.CreateNav(t, db, fund.Code, testutil.Date(2024, time.March, 28), 2.0)
	testutil.CreateHolding(t, db, fund.Code, 1000, 1.5)

	pc, err := svc.GetContext(ctx)
	require.NoError(t, err)

	assert.Equal(t, testutil.Date(2024, time.March, 29), pc.AsOf)
	assert.InDelta(t, 2000.0, pc.TotalValue, 1e-9)
	assert.InDelta(t, 20.0, pc.PositionRatio, 1e-9)
	assert.Equal(t, 3.0, pc.StrategyConfig["execution_window_days"])
	require.Len(t, pc.Holdings, 1)
	assert.Equal(t, "Index Fund", pc.Holdings[0].FundName)
	assert.InDelta(t, 100.0, pc.Holdings[0].Weight, 1e-9)
}

// TestPositionService_GetSuggestion tests evaluating the active strategy.
//
// WHY: This is the end-to-end path from stored data to advice; it must pick
// the stored active strategy and fail clearly when it is no longer registered.
func TestPositionService_GetSuggestion(t *testing.T) {
	ctx := context.Background()

	t.Run("simple strategy suggests filling the gap", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		testutil.SetBudget(t, db, 100000, 60, 80, strategy.SimpleStrategyName)
		fund := testutil.NewFund().Build(t, db)
		testutil.CreateNav(t, db, fund.Code, testutil.Date(2024, time.March, 1), 1.0)
		testutil.CreateHolding(t, db, fund.Code, 50000, 1.0)

		result, err := svc.GetSuggestion(ctx)
		require.NoError(t, err)

		assert.Equal(t, strategy.SimpleStrategyName, result.StrategyName)
		assert.Equal(t, model.ActionBuy, result.Metadata["action"])
		assert.InDelta(t, 10000.0, result.Metadata["gap"], 1e-9)
		assert.Contains(t, result.Summary, "10,000")
	})

	t.Run("asset rebalance trades classes inside the window", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		now := time.Date(2024, 3, 29, 10, 0, 0, 0, time.UTC)
		svc := testutil.NewTestPositionService(t, db).WithClock(testutil.FixedClock(now))

		testutil.SetBudget(t, db, 100000, 0, 100, strategy.AssetRebalanceStrategyName)
		equity := testutil.CreateFund(t, db, "Equity index")
		bond := testutil.CreateFund(t, db, "Bond fund")
		gold := testutil.CreateFund(t, db, "Gold ETF feeder")
		for _, f := range []model.Fund{equity, bond, gold} {
			testutil.CreateNav(t, db, f.Code, testutil.Date(2024, time.March, 28), 1.0)
		}
		testutil.CreateHolding(t, db, equity.Code, 45000, 1.0)
		testutil.CreateHolding(t, db, bond.Code, 9000, 1.0)
		testutil.CreateHolding(t, db, gold.Code, 36000, 1.0)

		result, err := svc.GetSuggestion(ctx)
		require.NoError(t, err)

		assert.Equal(t, "rebalance", result.Metadata["action"])
		byClass := make(map[string]model.SuggestionItem)
		for _, s := range result.Suggestions {
			byClass[s.FundCode] = s
		}
		require.Contains(t, byClass, "equity")
		require.Contains(t, byClass, "gold")
		assert.Equal(t, model.ActionBuy, byClass["equity"].Action)
		assert.InDelta(t, 18000.0, byClass["equity"].Amount, 1e-6)
		assert.Equal(t, model.ActionSell, byClass["gold"].Action)
		assert.InDelta(t, 18000.0, byClass["gold"].Amount, 1e-6)
		assert.NotContains(t, byClass, "bond")
	})

	t.Run("fails for unregistered active strategy", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPositionService(t, db)

		testutil.SetBudget(t, db, 100000, 60, 80, "retired_strategy")

		_, err := svc.GetSuggestion(ctx)
		assert.ErrorIs(t, err, apperrors.ErrNoActiveStrategy)
	})
}
