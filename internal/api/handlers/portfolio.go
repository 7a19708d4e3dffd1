package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/present"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/service"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/validation"
)

// PortfolioHandler handles HTTP requests for portfolio-wide valuation endpoints.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependency.
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// Summary handles GET requests for the portfolio totals at the latest NAVs.
//
// Endpoint: GET /api/portfolio/summary
// Response: 200 OK with PortfolioSummary
// Error: 500 Internal Server Error if valuation fails
func (h *PortfolioHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetPortfolioSummary(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetPortfolioSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.PortfolioSummary(summary))
}

// Platforms handles GET requests for the value, cost and PnL per platform.
//
// Endpoint: GET /api/portfolio/platforms
// Response: 200 OK with array of PlatformSummary
// Error: 500 Internal Server Error if valuation fails
func (h *PortfolioHandler) Platforms(w http.ResponseWriter, r *http.Request) {
	platforms, err := h.portfolioService.GetPlatformSummary(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetPlatformSummary.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.Platforms(platforms))
}

// Allocation handles GET requests for the value-weighted category breakdown on one dimension.
//
// Endpoint: GET /api/portfolio/allocation/{dimension}
// Response: 200 OK with AllocationResult
// Error: 400 Bad Request if the dimension is not asset_class, sector or geography
// Error: 500 Internal Server Error if valuation fails
func (h *PortfolioHandler) Allocation(w http.ResponseWriter, r *http.Request) {
	dimension := chi.URLParam(r, "dimension")

	result, err := h.portfolioService.GetAllocation(r.Context(), dimension)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidDimension) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDimension.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetAllocation.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.Allocation(result))
}

// TakeSnapshot handles POST requests that record today's portfolio totals.
// A snapshot taken earlier the same day is replaced.
//
// Endpoint: POST /api/portfolio/snapshots
// Response: 200 OK with PortfolioSnapshot
// Error: 500 Internal Server Error if the snapshot cannot be stored
func (h *PortfolioHandler) TakeSnapshot(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.portfolioService.TakeSnapshot(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToTakeSnapshot.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.Snapshot(snapshot))
}

// Snapshots handles GET requests for the stored daily snapshots in ascending date order.
//
// Endpoint: GET /api/portfolio/snapshots
// Query Parameters: start, end (optional, YYYY-MM-DD, inclusive)
// Response: 200 OK with array of PortfolioSnapshot
// Error: 400 Bad Request if the date range is invalid
// Error: 500 Internal Server Error if retrieval fails
func (h *PortfolioHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	start, end, err := validation.ParseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
		return
	}

	snapshots, err := h.portfolioService.GetSnapshots(r.Context(), start, end)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveSnapshots.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.Snapshots(snapshots))
}
