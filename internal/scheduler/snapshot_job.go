package scheduler

import (
	"context"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// SnapshotTaker records the portfolio snapshot of the current day.
type SnapshotTaker interface {
	TakeSnapshot(ctx context.Context) (model.PortfolioSnapshot, error)
}

// SnapshotJob records the daily portfolio snapshot.
type SnapshotJob struct {
	taker SnapshotTaker
}

// NewSnapshotJob creates a SnapshotJob backed by taker.
func NewSnapshotJob(taker SnapshotTaker) *SnapshotJob {
	return &SnapshotJob{taker: taker}
}

// Name implements Job.
func (j *SnapshotJob) Name() string { return "portfolio_snapshot" }

// Run implements Job.
func (j *SnapshotJob) Run(ctx context.Context) error {
	_, err := j.taker.TakeSnapshot(ctx)
	return err
}
