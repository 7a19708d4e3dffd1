package service

import (
	"context"
	"fmt"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// positionReminderLink is the client route of the position page.
const positionReminderLink = "/position"

// DashboardService collects the notices shown on the household dashboard.
type DashboardService struct {
	positionService *PositionService
}

// NewDashboardService creates a new DashboardService with the provided dependencies.
func NewDashboardService(positionService *PositionService) *DashboardService {
	return &DashboardService{
		positionService: positionService,
	}
}

// GetReminders returns the current reminders, most urgent first.
// The list is empty, never nil, when nothing needs attention.
func (s *DashboardService) GetReminders(ctx context.Context) ([]model.Reminder, error) {
	status, err := s.positionService.GetStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get position status: %w", err)
	}

	reminders := []model.Reminder{}
	if r, ok := positionReminder(status); ok {
		reminders = append(reminders, r)
	}
	return reminders, nil
}

// positionReminder warns when the fund position has left its target band.
// Without a budget there is no band to leave.
func positionReminder(status model.PositionStatus) (model.Reminder, bool) {
	if status.TotalBudget <= 0 {
		return model.Reminder{}, false
	}

	r := model.Reminder{
		Type:  model.ReminderTypeGrowthPosition,
		Level: model.ReminderWarning,
		Link:  positionReminderLink,
	}
	switch {
	case status.IsBelowMin:
		r.Title = "Fund position below target"
		r.Detail = fmt.Sprintf("Current position %.0f%%, below the target minimum of %.0f%%",
			status.PositionRatio, status.TargetPositionMin)
	case status.IsAboveMax:
		r.Title = "Fund position above target"
		r.Detail = fmt.Sprintf("Current position %.0f%%, above the target maximum of %.0f%%",
			status.PositionRatio, status.TargetPositionMax)
	default:
		return model.Reminder{}, false
	}
	return r, true
}
