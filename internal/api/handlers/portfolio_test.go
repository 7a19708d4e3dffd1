package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/handlers"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/testutil"
)

// TestPortfolioHandler_Summary tests the GET /api/portfolio/summary endpoint.
//
// WHY: The headline totals are shown on every page load and must leave the
// API rounded to cents.
func TestPortfolioHandler_Summary(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewPortfolioHandler(testutil.NewTestPortfolioService(t, db))

	fund := testutil.NewFund().Build(t, db)
	testutil.CreateNav(t, db, fund.Code, testutil.Date(2024, time.March, 1), 1.0)
	testutil.CreateHolding(t, db, fund.Code, 3, 1.0/3.0)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/summary", nil)
	w := httptest.NewRecorder()

	handler.Summary(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[model.PortfolioSummary](t, w)
	assert.Equal(t, 3.0, got.TotalValue)
	assert.Equal(t, 1.0, got.TotalCost)
	assert.Equal(t, 200.0, got.PnlPercent)
}

// TestPortfolioHandler_Platforms tests the GET /api/portfolio/platforms endpoint.
//
// WHY: Each platform row is reconciled against that platform's statement.
func TestPortfolioHandler_Platforms(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewPortfolioHandler(testutil.NewTestPortfolioService(t, db))

	fund := testutil.NewFund().Build(t, db)
	testutil.CreateNav(t, db, fund.Code, testutil.Date(2024, time.March, 1), 2.0)
	testutil.NewHolding(fund.Code).WithPlatform("Bank").WithShares(10).Build(t, db)

	req := httptest.NewRequest(http.MethodGet, "/api/portfolio/platforms", nil)
	w := httptest.NewRecorder()

	handler.Platforms(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	platforms := decodeBody[[]model.PlatformSummary](t, w)
	require.Len(t, platforms, 1)
	assert.Equal(t, "Bank", platforms[0].Platform)
	assert.Equal(t, 20.0, platforms[0].MarketValue)
}

// TestPortfolioHandler_Allocation tests the GET /api/portfolio/allocation/{dimension} endpoint.
//
// WHY: The dimension comes from the URL; anything but the three known axes
// must be a client error.
func TestPortfolioHandler_Allocation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewPortfolioHandler(testutil.NewTestPortfolioService(t, db))

	fund := testutil.NewFund().Build(t, db)
	testutil.CreateNav(t, db, fund.Code, testutil.Date(2024, time.March, 1), 1.0)
	testutil.CreateHolding(t, db, fund.Code, 1000, 1.0)
	testutil.NewAllocation(fund.Code, model.DimensionGeography, "China", 70).Build(t, db)
	testutil.NewAllocation(fund.Code, model.DimensionGeography, "United States", 30).Build(t, db)

	t.Run("returns weighted categories", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/allocation/geography", map[string]string{"dimension": "geography"})
		w := httptest.NewRecorder()

		handler.Allocation(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		got := decodeBody[model.AllocationResult](t, w)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "China", got.Items[0].Category)
		assert.Equal(t, 70.0, got.Items[0].Percentage)
	})

	t.Run("rejects unknown dimension", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/allocation/style", map[string]string{"dimension": "style"})
		w := httptest.NewRecorder()

		handler.Allocation(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "invalid allocation dimension", decodeError(t, w).Error)
	})
}

// TestPortfolioHandler_Snapshots tests the snapshot record and list endpoints.
//
// WHY: Snapshots feed the history chart; listing must honour the date window.
func TestPortfolioHandler_Snapshots(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)
	handler := handlers.NewPortfolioHandler(svc)

	for day := 1; day <= 3; day++ {
		svc.WithClock(testutil.FixedClock(time.Date(2024, 3, day, 20, 0, 0, 0, time.UTC)))

		req := httptest.NewRequest(http.MethodPost, "/api/portfolio/snapshots", nil)
		w := httptest.NewRecorder()
		handler.TakeSnapshot(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	t.Run("lists window", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/portfolio/snapshots", map[string]string{
			"start": "2024-03-02",
		})
		w := httptest.NewRecorder()

		handler.Snapshots(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		snapshots := decodeBody[[]model.PortfolioSnapshot](t, w)
		require.Len(t, snapshots, 2)
		assert.Equal(t, testutil.Date(2024, time.March, 2), snapshots[0].Date)
	})

	t.Run("rejects malformed date", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/portfolio/snapshots", map[string]string{
			"end": "03/01/2024",
		})
		w := httptest.NewRecorder()

		handler.Snapshots(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
