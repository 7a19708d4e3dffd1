package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/testutil"
)

// TestHoldingService_CreateHolding tests recording a new purchase lot.
//
// WHY: Lots may be recorded before any fund metadata or NAV exists. The fund
// row must be created implicitly and the lot returned without valuation.
func TestHoldingService_CreateHolding(t *testing.T) {
	ctx := context.Background()

	t.Run("creates fund row for unknown fund code", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		h, err := svc.CreateHolding(ctx, request.CreateHoldingRequest{
			FundCode:     "000001",
			Platform:     "Alipay",
			Shares:       1000,
			CostPrice:    1.5,
			PurchaseDate: "2024-03-01",
		})
		require.NoError(t, err)

		assert.NotEmpty(t, h.ID)
		assert.Equal(t, "000001", h.FundCode)
		assert.Equal(t, testutil.Date(2024, time.March, 1), h.PurchaseDate)
		assert.Nil(t, h.MarketValue, "no NAV recorded yet")
		assert.Nil(t, h.LatestNav)
		testutil.AssertRowCount(t, db, "fund", 1)
		testutil.AssertRowCount(t, db, "holding", 1)
	})

	t.Run("values lot against latest nav", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		fund := testutil.NewFund().WithName("Index Fund").Build(t, db)
		testutil.CreateNav(t, db, fund.Code, testutil.Date(2024, time.March, 1), 1.0)
		testutil.CreateNav(t, db, fund.Code, testutil.Date(2024, time.March, 4), 2.0)

		h, err := svc.CreateHolding(ctx, request.CreateHoldingRequest{
			FundCode:     fund.Code,
			Platform:     "Bank",
			Shares:       100,
			CostPrice:    1.6,
			PurchaseDate: "2024-03-01",
		})
		require.NoError(t, err)

		assert.Equal(t, "Index Fund", h.FundName)
		require.NotNil(t, h.MarketValue)
		assert.InDelta(t, 200.0, *h.MarketValue, 1e-9)
		require.NotNil(t, h.Pnl)
		assert.InDelta(t, 40.0, *h.Pnl, 1e-9)
		require.NotNil(t, h.PnlPercent)
		assert.InDelta(t, 25.0, *h.PnlPercent, 1e-9)
		require.NotNil(t, h.LatestNavDate)
		assert.Equal(t, testutil.Date(2024, time.March, 4), *h.LatestNavDate)
	})
}

// TestHoldingService_GetHoldings tests listing enriched holdings.
//
// WHY: The holdings list is the main view of the household's lots; unpriced
// lots must still be listed.
func TestHoldingService_GetHoldings(t *testing.T) {
	ctx := context.Background()

	t.Run("returns empty slice when no holdings exist", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		holdings, err := svc.GetHoldings(ctx)
		require.NoError(t, err)
		assert.NotNil(t, holdings)
		assert.Empty(t, holdings)
	})

	t.Run("lists priced and unpriced lots in creation order", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		priced := testutil.NewFund().Build(t, db)
		unpriced := testutil.NewFund().Build(t, db)
		testutil.CreateNav(t, db, priced.Code, testutil.Date(2024, time.March, 1), 1.2)

		base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
		first := testutil.NewHolding(priced.Code).WithCreatedAt(base).Build(t, db)
		second := testutil.NewHolding(unpriced.Code).WithCreatedAt(base.Add(time.Minute)).Build(t, db)

		holdings, err := svc.GetHoldings(ctx)
		require.NoError(t, err)
		require.Len(t, holdings, 2)

		assert.Equal(t, first.ID, holdings[0].ID)
		require.NotNil(t, holdings[0].MarketValue)
		assert.InDelta(t, 1200.0, *holdings[0].MarketValue, 1e-9)

		assert.Equal(t, second.ID, holdings[1].ID)
		assert.Nil(t, holdings[1].MarketValue)
	})
}

// TestHoldingService_UpdateHolding tests partial updates of a lot.
//
// WHY: Only the fields sent by the client may change; everything else keeps
// its stored value.
func TestHoldingService_UpdateHolding(t *testing.T) {
	ctx := context.Background()

	t.Run("changes only given fields", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		fund := testutil.NewFund().Build(t, db)
		h := testutil.CreateHolding(t, db, fund.Code, 500, 2.0)

		platform := "New Broker"
		updated, err := svc.UpdateHolding(ctx, h.ID, request.UpdateHoldingRequest{Platform: &platform})
		require.NoError(t, err)

		assert.Equal(t, "New Broker", updated.Platform)
		assert.Equal(t, 500.0, updated.Shares)
		assert.Equal(t, 2.0, updated.CostPrice)
		assert.Equal(t, h.PurchaseDate, updated.PurchaseDate)
	})

	t.Run("returns not found for unknown holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		shares := 10.0
		_, err := svc.UpdateHolding(ctx, testutil.MakeID(), request.UpdateHoldingRequest{Shares: &shares})
		assert.ErrorIs(t, err, apperrors.ErrHoldingNotFound)
	})
}

// TestHoldingService_UpdateSnapshot tests the snapshot update and its change log.
//
// WHY: Platforms report current totals after dividends and top-ups. The update
// must replace the lot's figures and keep an auditable trail of the change.
func TestHoldingService_UpdateSnapshot(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 10, 15, 30, 0, 0, time.UTC)

	t.Run("replaces figures and appends change log", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db).WithClock(testutil.FixedClock(now))

		fund := testutil.NewFund().Build(t, db)
		h := testutil.CreateHolding(t, db, fund.Code, 1000, 1.5)

		entry, err := svc.UpdateSnapshot(ctx, h.ID, request.SnapshotUpdateRequest{Shares: 1200, CostPrice: 1.45})
		require.NoError(t, err)

		assert.Equal(t, 1000.0, entry.OldShares)
		assert.Equal(t, 1200.0, entry.NewShares)
		assert.Equal(t, 1.5, entry.OldCostPrice)
		assert.Equal(t, 1.45, entry.NewCostPrice)
		assert.InDelta(t, 200.0, entry.SharesDiff, 1e-9)
		assert.Equal(t, testutil.Date(2024, time.May, 10), entry.ChangeDate, "defaults to today")

		got, err := svc.GetHolding(ctx, h.ID)
		require.NoError(t, err)
		assert.Equal(t, 1200.0, got.Shares)
		assert.Equal(t, 1.45, got.CostPrice)
	})

	t.Run("lists change log newest first", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db).WithClock(testutil.FixedClock(now))

		fund := testutil.NewFund().Build(t, db)
		h := testutil.CreateHolding(t, db, fund.Code, 100, 1.0)

		_, err := svc.UpdateSnapshot(ctx, h.ID, request.SnapshotUpdateRequest{Shares: 110, CostPrice: 1.0, ChangeDate: "2024-04-01"})
		require.NoError(t, err)
		_, err = svc.UpdateSnapshot(ctx, h.ID, request.SnapshotUpdateRequest{Shares: 90, CostPrice: 1.1, ChangeDate: "2024-05-01"})
		require.NoError(t, err)

		logs, err := svc.GetChangeLog(ctx, h.ID)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, testutil.Date(2024, time.May, 1), logs[0].ChangeDate)
		assert.InDelta(t, -20.0, logs[0].SharesDiff, 1e-9)
		assert.Equal(t, testutil.Date(2024, time.April, 1), logs[1].ChangeDate)
		assert.InDelta(t, 10.0, logs[1].SharesDiff, 1e-9)
	})

	t.Run("returns not found for unknown holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		_, err := svc.UpdateSnapshot(ctx, testutil.MakeID(), request.SnapshotUpdateRequest{Shares: 1, CostPrice: 1})
		assert.ErrorIs(t, err, apperrors.ErrHoldingNotFound)
		testutil.AssertRowCount(t, db, "holding_change_log", 0)
	})
}

// TestHoldingService_DeleteHolding tests removing a lot.
//
// WHY: Deleting a lot must not leave orphaned change log rows behind.
func TestHoldingService_DeleteHolding(t *testing.T) {
	ctx := context.Background()

	t.Run("removes holding and its change log", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		fund := testutil.NewFund().Build(t, db)
		h := testutil.CreateHolding(t, db, fund.Code, 100, 1.0)
		_, err := svc.UpdateSnapshot(ctx, h.ID, request.SnapshotUpdateRequest{Shares: 120, CostPrice: 1.0})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteHolding(ctx, h.ID))

		testutil.AssertRowCount(t, db, "holding", 0)
		testutil.AssertRowCount(t, db, "holding_change_log", 0)
	})

	t.Run("returns not found for unknown holding", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestHoldingService(t, db)

		err := svc.DeleteHolding(ctx, testutil.MakeID())
		assert.ErrorIs(t, err, apperrors.ErrHoldingNotFound)

		_, err = svc.GetChangeLog(ctx, testutil.MakeID())
		assert.ErrorIs(t, err, apperrors.ErrHoldingNotFound)
	})
}
