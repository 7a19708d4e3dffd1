package scheduler

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/testutil"
)

type fakeTaker struct {
	calls int
	err   error
}

func (f *fakeTaker) TakeSnapshot(context.Context) (model.PortfolioSnapshot, error) {
	f.calls++
	return model.PortfolioSnapshot{}, f.err
}

// TestScheduler_AddJob tests schedule registration.
//
// WHY: A typo in SNAPSHOT_SCHEDULE must fail at startup instead of silently
// never running the job.
func TestScheduler_AddJob(t *testing.T) {
	s := New(zerolog.Nop())
	job := NewSnapshotJob(&fakeTaker{})

	assert.NoError(t, s.AddJob("0 0 20 * * *", job))
	assert.NoError(t, s.AddJob("@daily", job))
	assert.Error(t, s.AddJob("not a schedule", job))
	assert.Error(t, s.AddJob("0 20 * * *", job), "schedules need a seconds field")
}

// TestScheduler_Run tests a single job execution.
//
// WHY: A failing job must be logged and must not take the scheduler down.
func TestScheduler_Run(t *testing.T) {
	t.Run("logs failure", func(t *testing.T) {
		var buf bytes.Buffer
		s := New(zerolog.New(&buf))
		taker := &fakeTaker{err: errors.New("database is locked")}

		s.run(NewSnapshotJob(taker))

		assert.Equal(t, 1, taker.calls)
		assert.Contains(t, buf.String(), "Job failed")
		assert.Contains(t, buf.String(), "portfolio_snapshot")
		assert.Contains(t, buf.String(), "database is locked")
	})

	t.Run("runs now", func(t *testing.T) {
		s := New(zerolog.Nop())
		taker := &fakeTaker{}

		require.NoError(t, s.RunNow(context.Background(), NewSnapshotJob(taker)))
		assert.Equal(t, 1, taker.calls)
	})
}

// TestSnapshotJob_Run tests the snapshot job against the portfolio service.
//
// WHY: The job is the only writer of the snapshot history in production.
func TestSnapshotJob_Run(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db).
		WithClock(testutil.FixedClock(time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)))

	fund := testutil.NewFund().Build(t, db)
	testutil.CreateNav(t, db, fund.Code, testutil.Date(2024, time.March, 1), 1.5)
	testutil.CreateHolding(t, db, fund.Code, 100, 1.0)

	require.NoError(t, NewSnapshotJob(svc).Run(context.Background()))

	snapshots, err := svc.GetSnapshots(context.Background(), nil, nil)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.InDelta(t, 150.0, snapshots[0].TotalValue, 1e-9)
}
