package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/repository"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/valuation"
)

// PortfolioService handles portfolio-wide valuation: totals, the platform
// breakdown, weighted category allocation and the daily snapshot history.
type PortfolioService struct {
	portfolioRepo *repository.PortfolioRepository
	dataLoader    *DataLoaderService
	log           zerolog.Logger
	now           func() time.Time
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	portfolioRepo *repository.PortfolioRepository,
	dataLoader *DataLoaderService,
	log zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		portfolioRepo: portfolioRepo,
		dataLoader:    dataLoader,
		log:           log.With().Str("service", "portfolio").Logger(),
		now:           time.Now,
	}
}

// WithClock replaces the time source that decides the snapshot date.
func (s *PortfolioService) WithClock(now func() time.Time) *PortfolioService {
	s.now = now
	return s
}

// GetPortfolioSummary returns total market value, cost and PnL of all holdings.
// Unpriced holdings count toward cost only.
func (s *PortfolioService) GetPortfolioSummary(ctx context.Context) (model.PortfolioSummary, error) {
	data, err := s.dataLoader.LoadPortfolioData(ctx, false)
	if err != nil {
		return model.PortfolioSummary{}, err
	}
	return summarize(s.valuate(data)), nil
}

// GetPlatformSummary aggregates value and cost per platform, in order of first
// appearance.
func (s *PortfolioService) GetPlatformSummary(ctx context.Context) ([]model.PlatformSummary, error) {
	data, err := s.dataLoader.LoadPortfolioData(ctx, false)
	if err != nil {
		return nil, err
	}

	pc := s.valuate(data)
	platforms := []model.PlatformSummary{}
	index := make(map[string]int)
	for _, h := range pc.Holdings {
		i, ok := index[h.Platform]
		if !ok {
			i = len(platforms)
			index[h.Platform] = i
			platforms = append(platforms, model.PlatformSummary{Platform: h.Platform})
		}
		platforms[i].MarketValue += h.MarketValue
		platforms[i].Cost += h.Cost
		platforms[i].Count++
	}
	for i := range platforms {
		platforms[i].Pnl = platforms[i].MarketValue - platforms[i].Cost
	}
	return platforms, nil
}

// GetAllocation returns the portfolio's weighted breakdown on one dimension.
// Returns ErrInvalidDimension for an unknown dimension before touching the database.
func (s *PortfolioService) GetAllocation(ctx context.Context, dimension string) (model.AllocationResult, error) {
	dim, err := model.ParseDimension(dimension)
	if err != nil {
		return model.AllocationResult{}, err
	}

	data, err := s.dataLoader.LoadPortfolioData(ctx, true)
	if err != nil {
		return model.AllocationResult{}, err
	}

	return valuation.AggregateAllocation(valuation.AllocationInput{
		Dimension:   dim,
		Holdings:    data.Holdings,
		Prices:      data.Prices(),
		Allocations: data.AllocationLookup(),
		Funds:       data.FundLookup(),
	})
}

// TakeSnapshot values the portfolio and stores the result under today's date,
// replacing an earlier snapshot of the same day.
func (s *PortfolioService) TakeSnapshot(ctx context.Context) (model.PortfolioSnapshot, error) {
	summary, err := s.GetPortfolioSummary(ctx)
	if err != nil {
		return model.PortfolioSnapshot{}, err
	}

	snapshot := model.PortfolioSnapshot{
		Date:       calendarDay(s.now()),
		TotalValue: summary.TotalValue,
		TotalCost:  summary.TotalCost,
		TotalPnl:   summary.TotalPnl,
	}
	if err := s.portfolioRepo.UpsertSnapshot(ctx, snapshot); err != nil {
		return model.PortfolioSnapshot{}, err
	}

	s.log.Info().
		Str("date", snapshot.Date.Format("2006-01-02")).
		Float64("total_value", snapshot.TotalValue).
		Float64("total_cost", snapshot.TotalCost).
		Msg("Portfolio snapshot recorded")

	return snapshot, nil
}

// GetSnapshots returns stored daily snapshots in ascending date order.
func (s *PortfolioService) GetSnapshots(ctx context.Context, start, end *time.Time) ([]model.PortfolioSnapshot, error) {
	return s.portfolioRepo.GetSnapshots(ctx, start, end)
}

// valuate runs the context builder without a budget; only the totals and
// per-lot valuations are used.
func (s *PortfolioService) valuate(data *PortfolioData) model.PortfolioContext {
	return valuation.BuildContext(valuation.ContextInput{
		Holdings: data.Holdings,
		Prices:   data.Prices(),
		Funds:    data.FundLookup(),
		AsOf:     calendarDay(s.now()),
	})
}

func summarize(pc model.PortfolioContext) model.PortfolioSummary {
	summary := model.PortfolioSummary{
		TotalValue: pc.TotalValue,
		TotalCost:  pc.TotalCost,
		TotalPnl:   pc.TotalValue - pc.TotalCost,
	}
	if pc.TotalCost != 0 {
		summary.PnlPercent = summary.TotalPnl / pc.TotalCost * 100
	}
	return summary
}
