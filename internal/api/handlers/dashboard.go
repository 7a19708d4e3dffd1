package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/service"
)

// DashboardHandler handles HTTP requests for dashboard endpoints.
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler with the provided service dependency.
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

// Reminders handles GET requests for the notices that need the household's attention.
//
// Endpoint: GET /api/dashboard/reminders
// Response: 200 OK with array of Reminder, most urgent first
// Error: 500 Internal Server Error if the position cannot be evaluated
func (h *DashboardHandler) Reminders(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.dashboardService.GetReminders(r.Context())
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetReminders.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, reminders)
}
