package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/present"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/service"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/validation"
)

// HoldingHandler handles HTTP requests for holding endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the holdingService.
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler with the provided service dependency.
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
	}
}

// Holdings handles GET requests to list every purchase lot, valued at the latest NAV.
//
// Endpoint: GET /api/holdings
// Response: 200 OK with array of HoldingResponse
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.holdingService.GetHoldings(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.Holdings(holdings))
}

// GetHolding handles GET requests to retrieve a single lot.
//
// Endpoint: GET /api/holdings/{uuid}
// Response: 200 OK with HoldingResponse
// Error: 400 Bad Request if holding ID is invalid (validated by middleware)
// Error: 404 Not Found if holding not found
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) GetHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	holding, err := h.holdingService.GetHolding(r.Context(), holdingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveHoldings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.Holding(holding))
}

// CreateHolding handles POST requests to record a purchase lot.
// The fund row is created when the fund code is unknown.
//
// Endpoint: POST /api/holdings
// Request Body: CreateHoldingRequest (fund_code, platform, shares, cost_price, purchase_date)
// Response: 201 Created with HoldingResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 500 Internal Server Error if creation fails
func (h *HoldingHandler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holding, err := h.holdingService.CreateHolding(r.Context(), req)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, "failed to create holding", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusCreated, present.Holding(holding))
}

// UpdateHolding handles PUT requests to change fields of a lot.
// Fields omitted from the body keep their stored value.
//
// Endpoint: PUT /api/holdings/{uuid}
// Request Body: UpdateHoldingRequest (all fields optional)
// Response: 200 OK with HoldingResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if holding not found
// Error: 500 Internal Server Error if update fails
func (h *HoldingHandler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holding, err := h.holdingService.UpdateHolding(r.Context(), holdingID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update holding", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.Holding(holding))
}

// DeleteHolding handles DELETE requests to remove a lot and its change log.
//
// Endpoint: DELETE /api/holdings/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if holding not found
// Error: 500 Internal Server Error if deletion fails
func (h *HoldingHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	if err := h.holdingService.DeleteHolding(r.Context(), holdingID); err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to delete holding", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// UpdateSnapshot handles POST requests that replace a lot's shares and cost
// price with the figures reported by the platform.
//
// Endpoint: POST /api/holdings/{uuid}/snapshot
// Request Body: SnapshotUpdateRequest (shares, cost_price, change_date optional)
// Response: 200 OK with the recorded HoldingChangeLog entry
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if holding not found
// Error: 500 Internal Server Error if update fails
func (h *HoldingHandler) UpdateSnapshot(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.SnapshotUpdateRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSnapshotUpdate(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	entry, err := h.holdingService.UpdateSnapshot(r.Context(), holdingID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, "failed to update holding snapshot", err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, entry)
}

// ChangeLog handles GET requests for the snapshot change history of a lot, newest first.
//
// Endpoint: GET /api/holdings/{uuid}/changelog
// Response: 200 OK with array of HoldingChangeLog
// Error: 404 Not Found if holding not found
// Error: 500 Internal Server Error if retrieval fails
func (h *HoldingHandler) ChangeLog(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	logs, err := h.holdingService.GetChangeLog(r.Context(), holdingID)
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrHoldingNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveChangeLog.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, logs)
}
