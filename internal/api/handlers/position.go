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

// PositionHandler handles HTTP requests for the position budget, strategy
// selection and strategy suggestions.
type PositionHandler struct {
	positionService *service.PositionService
}

// NewPositionHandler creates a new PositionHandler with the provided service dependency.
func NewPositionHandler(positionService *service.PositionService) *PositionHandler {
	return &PositionHandler{
		positionService: positionService,
	}
}

// Budget handles GET requests for the budget and the current position against it.
//
// Endpoint: GET /api/position/budget
// Response: 200 OK with PositionStatus
// Error: 500 Internal Server Error if retrieval fails
func (h *PositionHandler) Budget(w http.ResponseWriter, r *http.Request) {
	status, err := h.positionService.GetStatus(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveBudget.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.PositionStatus(status))
}

// UpdateBudget handles PUT requests that change the total budget or the target band.
// A change of the total is recorded in the budget change log with the given reason.
//
// Endpoint: PUT /api/position/budget
// Request Body: UpdateBudgetRequest (total_budget, target_position_min, target_position_max, reason; all optional)
// Response: 200 OK with PositionStatus
// Error: 400 Bad Request if validation fails or the band would be inverted
// Error: 500 Internal Server Error if update fails
func (h *PositionHandler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateBudgetRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateBudget(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	status, err := h.positionService.UpdateBudget(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTargetBand) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTargetBand.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateBudget.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.PositionStatus(status))
}

// BudgetChangeLog handles GET requests for the history of total budget changes, newest first.
//
// Endpoint: GET /api/position/budget/changelog
// Response: 200 OK with array of BudgetChangeLog
// Error: 500 Internal Server Error if retrieval fails
func (h *PositionHandler) BudgetChangeLog(w http.ResponseWriter, r *http.Request) {
	logs, err := h.positionService.GetBudgetChangeLog(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveBudgetLog.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, logs)
}

// Strategies handles GET requests listing the registered strategies.
//
// Endpoint: GET /api/position/strategies
// Response: 200 OK with array of StrategyInfo
func (h *PositionHandler) Strategies(w http.ResponseWriter, _ *http.Request) {
	response.RespondJSON(w, http.StatusOK, h.positionService.ListStrategies())
}

// SetActiveStrategy handles PUT requests selecting the strategy used for suggestions.
//
// Endpoint: PUT /api/position/active-strategy
// Request Body: SetActiveStrategyRequest (strategy_name)
// Response: 200 OK with PositionStatus
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if no strategy has that name
// Error: 500 Internal Server Error if update fails
func (h *PositionHandler) SetActiveStrategy(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SetActiveStrategyRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateSetActiveStrategy(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	status, err := h.positionService.SetActiveStrategy(r.Context(), req.StrategyName)
	if err != nil {
		if errors.Is(err, apperrors.ErrStrategyNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrStrategyNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateBudget.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.PositionStatus(status))
}

// StrategyConfig handles GET requests for the stored config of a strategy.
// Returns an empty config when the strategy runs on its defaults.
//
// Endpoint: GET /api/position/strategy-config/{name}
// Response: 200 OK with StrategyConfig
// Error: 404 Not Found if no strategy has that name
// Error: 500 Internal Server Error if retrieval fails
func (h *PositionHandler) StrategyConfig(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	cfg, err := h.positionService.GetStrategyConfig(r.Context(), name)
	if err != nil {
		if errors.Is(err, apperrors.ErrStrategyNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrStrategyNotFound.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveStrategyConfig.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, cfg)
}

// UpdateStrategyConfig handles PUT requests that replace the config of a strategy.
// The config is checked by the strategy before it is stored.
//
// Endpoint: PUT /api/position/strategy-config/{name}
// Request Body: UpdateStrategyConfigRequest (config)
// Response: 200 OK with StrategyConfig
// Error: 400 Bad Request if the body is invalid or the strategy rejects the config
// Error: 404 Not Found if no strategy has that name
// Error: 500 Internal Server Error if update fails
func (h *PositionHandler) UpdateStrategyConfig(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	req, err := parseJSON[request.UpdateStrategyConfigRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	cfg, err := h.positionService.UpdateStrategyConfig(r.Context(), name, req.Config)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrStrategyNotFound):
			response.RespondError(w, http.StatusNotFound, apperrors.ErrStrategyNotFound.Error(), err.Error())
		case errors.Is(err, apperrors.ErrInvalidStrategyConfig):
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidStrategyConfig.Error(), err.Error())
		default:
			response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToUpdateStrategyConfig.Error(), err.Error())
		}
		return
	}

	response.RespondJSON(w, http.StatusOK, cfg)
}

// Suggestion handles GET requests that evaluate the active strategy.
//
// Endpoint: GET /api/position/suggestion
// Response: 200 OK with StrategyResult
// Error: 404 Not Found if the stored active strategy is not registered
// Error: 500 Internal Server Error if the portfolio cannot be valued
func (h *PositionHandler) Suggestion(w http.ResponseWriter, r *http.Request) {
	result, err := h.positionService.GetSuggestion(r.Context())
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveStrategy) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrNoActiveStrategy.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRunStrategy.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.StrategyResult(result))
}

// Context handles GET requests for the valuation context strategies evaluate.
//
// Endpoint: GET /api/position/context
// Response: 200 OK with PortfolioContext
// Error: 500 Internal Server Error if the portfolio cannot be valued
func (h *PositionHandler) Context(w http.ResponseWriter, r *http.Request) {
	pc, err := h.positionService.GetContext(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToBuildContext.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, present.Context(pc))
}
