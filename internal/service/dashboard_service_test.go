package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/strategy"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/testutil"
)

// TestDashboardService_GetReminders tests the position band reminder.
//
// WHY: The dashboard is where a drifting position gets noticed. Leaving the
// band on either side must raise a warning; an unset budget must not.
func TestDashboardService_GetReminders(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		budget     float64
		shares     float64
		wantTitle  string
		wantDetail string
	}{
		{"no budget", 0, 500, "", ""},
		{"inside band", 1000, 700, "", ""},
		{"below band", 1000, 450, "Fund position below target", "Current position 45%, below the target minimum of 60%"},
		{"above band", 1000, 900, "Fund position above target", "Current position 90%, above the target maximum of 80%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			svc := testutil.NewTestDashboardService(t, db)

			testutil.SetBudget(t, db, tt.budget, 60, 80, strategy.SimpleStrategyName)
			fund := testutil.NewFund().Build(t, db)
			testutil.CreateNav(t, db, fund.Code, testutil.Date(2024, time.March, 1), 1.0)
			testutil.CreateHolding(t, db, fund.Code, tt.shares, 1.0)

			reminders, err := svc.GetReminders(ctx)
			require.NoError(t, err)

			if tt.wantTitle == "" {
				assert.NotNil(t, reminders)
				assert.Empty(t, reminders)
				return
			}
			require.Len(t, reminders, 1)
			assert.Equal(t, model.ReminderTypeGrowthPosition, reminders[0].Type)
			assert.Equal(t, model.ReminderWarning, reminders[0].Level)
			assert.Equal(t, tt.wantTitle, reminders[0].Title)
			assert.Equal(t, tt.wantDetail, reminders[0].Detail)
			assert.Nil(t, reminders[0].Days)
		})
	}
}
