package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/service"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/validation"
)

// FundHandler handles HTTP requests for fund endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the fundService.
type FundHandler struct {
	fundService *service.FundService
}

// NewFundHandler creates a new FundHandler with the provided service dependency.
func NewFundHandler(fundService *service.FundService) *FundHandler {
	return &FundHandler{
		fundService: fundService,
	}
}

// ImportNavsResponse reports how many NAV points were stored.
type ImportNavsResponse struct {
	FundCode string `json:"fund_code"`
	Imported int    `json:"imported"`
}

// GetFund handles GET requests to retrieve a fund with its latest NAV.
//
// Endpoint: GET /api/funds/{code}
// Response: 200 OK with FundDetail
// Error: 400 Bad Request if the fund code is malformed
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) GetFund(w http.ResponseWriter, r *http.Request) {
	code, err := fundCodeParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.fundService.GetFund(r.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveFund.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// UpdateFund handles PUT requests to set the name, type and manager of a fund.
// Creates the fund when the code is unknown.
//
// Endpoint: PUT /api/funds/{code}
// Request Body: UpdateFundRequest (fund_name, fund_type, management_company)
// Response: 200 OK with FundDetail
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if update fails
func (h *FundHandler) UpdateFund(w http.ResponseWriter, r *http.Request) {
	code, err := fundCodeParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	req, err := parseJSON[request.UpdateFundRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateFund(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	fund, err := h.fundService.UpdateFund(r.Context(), code, req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to update fund", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, fund)
}

// NavHistory handles GET requests for the NAV history of a fund in ascending date order.
//
// Endpoint: GET /api/funds/{code}/navs
// Query Parameters: start, end (optional, YYYY-MM-DD, inclusive)
// Response: 200 OK with array of FundNav
// Error: 400 Bad Request if the fund code or date range is invalid
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) NavHistory(w http.ResponseWriter, r *http.Request) {
	code, err := fundCodeParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	start, end, err := validation.ParseDateRange(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDateRange.Error(), err.Error())
		return
	}

	navs, err := h.fundService.GetNavHistory(r.Context(), code, start, end)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveNavHistory.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, navs)
}

// ImportNavs handles POST requests that store NAV points for a fund.
// Existing dates are overwritten and an unknown fund is created.
//
// Endpoint: POST /api/funds/{code}/navs
// Request Body: ImportNavsRequest (navs: [{date, nav}])
// Response: 200 OK with ImportNavsResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 401 Unauthorized if the API key or time token is missing or invalid (middleware)
// Error: 500 Internal Server Error if import fails
func (h *FundHandler) ImportNavs(w http.ResponseWriter, r *http.Request) {
	code, err := fundCodeParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	req, err := parseJSON[request.ImportNavsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateImportNavs(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	n, err := h.fundService.ImportNavs(r.Context(), code, req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToImportNavs.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, ImportNavsResponse{FundCode: code, Imported: n})
}

// Allocations handles GET requests for the category rows of a fund grouped by dimension.
// Every dimension is present in the response, empty when the fund has no rows for it.
//
// Endpoint: GET /api/funds/{code}/allocations
// Response: 200 OK with map of dimension to array of FundAllocation
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) Allocations(w http.ResponseWriter, r *http.Request) {
	code, err := fundCodeParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	grouped, err := h.fundService.GetAllocations(r.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveAllocations.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, grouped)
}

// OverrideAllocations handles PUT requests with manually entered category rows.
// The rows of each dimension in the body replace the stored rows of that dimension.
//
// Endpoint: PUT /api/funds/{code}/allocations
// Request Body: OverrideAllocationsRequest (allocations: [{dimension, category, percentage, report_date}])
// Response: 200 OK with map of dimension to array of FundAllocation
// Error: 400 Bad Request if validation fails or a dimension is unknown
// Error: 401 Unauthorized if the API key or time token is missing or invalid (middleware)
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if the override fails
func (h *FundHandler) OverrideAllocations(w http.ResponseWriter, r *http.Request) {
	code, err := fundCodeParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	req, err := parseJSON[request.OverrideAllocationsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateAllocationOverride(req.Allocations); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	grouped, err := h.fundService.OverrideAllocations(r.Context(), code, req.Allocations)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrInvalidDimension):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDimension.Error(), err.Error())
		case errors.Is(err, apperrors.ErrFundNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToOverrideAllocation.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, grouped)
}

// TopHoldings handles GET requests for the disclosed top holdings of a fund, largest first.
//
// Endpoint: GET /api/funds/{code}/top-holdings
// Response: 200 OK with array of FundTopHolding
// Error: 400 Bad Request if the fund code is malformed
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if retrieval fails
func (h *FundHandler) TopHoldings(w http.ResponseWriter, r *http.Request) {
	code, err := fundCodeParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holdings, err := h.fundService.GetTopHoldings(r.Context(), code)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveTopHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// ReplaceTopHoldings handles PUT requests with a manually entered top holdings disclosure.
// The stored disclosure of the fund is replaced as a whole.
//
// Endpoint: PUT /api/funds/{code}/top-holdings
// Request Body: ReplaceTopHoldingsRequest (top_holdings: [{stock_code, stock_name, percentage, report_date}])
// Response: 200 OK with array of FundTopHolding
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 401 Unauthorized if the API key or time token is missing or invalid (middleware)
// Error: 404 Not Found if fund not found
// Error: 500 Internal Server Error if the replacement fails
func (h *FundHandler) ReplaceTopHoldings(w http.ResponseWriter, r *http.Request) {
	code, err := fundCodeParam(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	req, err := parseJSON[request.ReplaceTopHoldingsRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateTopHoldings(req.TopHoldings); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holdings, err := h.fundService.ReplaceTopHoldings(r.Context(), code, req.TopHoldings)
	if err != nil {
		if errors.Is(err, apperrors.ErrFundNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrFundNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToReplaceTopHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}
