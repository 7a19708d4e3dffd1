package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/repository"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/valuation"
)

// DataLoaderService centralizes loading the inputs of the valuation engine:
// holdings, latest NAVs, fund metadata and, when asked for, allocation rows.
// The reads are independent and run concurrently.
type DataLoaderService struct {
	holdingRepo *repository.HoldingRepository
	fundRepo    *repository.FundRepository
}

// NewDataLoaderService creates a new DataLoaderService with the provided dependencies.
func NewDataLoaderService(
	holdingRepo *repository.HoldingRepository,
	fundRepo *repository.FundRepository,
) *DataLoaderService {
	return &DataLoaderService{
		holdingRepo: holdingRepo,
		fundRepo:    fundRepo,
	}
}

// PortfolioData contains everything the valuation engine reads.
// Allocations is nil unless it was requested.
type PortfolioData struct {
	Holdings    []model.Holding
	LatestNavs  map[string]model.FundNav
	Funds       map[string]model.Fund
	Allocations map[string][]model.FundAllocation
}

// Prices exposes the latest NAVs as a valuation.PriceLookup.
func (data *PortfolioData) Prices() valuation.PriceMap {
	prices := make(valuation.PriceMap, len(data.LatestNavs))
	for code, nav := range data.LatestNavs {
		prices[code] = nav.Nav
	}
	return prices
}

// FundLookup exposes fund metadata as a valuation.FundLookup.
func (data *PortfolioData) FundLookup() valuation.FundMap {
	return valuation.FundMap(data.Funds)
}

// AllocationLookup exposes the allocation rows as a valuation.AllocationLookup.
func (data *PortfolioData) AllocationLookup() valuation.AllocationMap {
	return valuation.AllocationMap(data.Allocations)
}

// LoadPortfolioData loads the current holdings together with the latest NAV and
// metadata of every fund. Allocation rows are loaded only when withAllocations
// is set. The first failing read cancels the others.
func (s *DataLoaderService) LoadPortfolioData(ctx context.Context, withAllocations bool) (*PortfolioData, error) {
	data := &PortfolioData{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		holdings, err := s.holdingRepo.GetHoldings(gctx)
		if err != nil {
			return fmt.Errorf("failed to load holdings: %w", err)
		}
		data.Holdings = holdings
		return nil
	})

	g.Go(func() error {
		navs, err := s.fundRepo.GetLatestNavs(gctx)
		if err != nil {
			return fmt.Errorf("failed to load latest navs: %w", err)
		}
		data.LatestNavs = navs
		return nil
	})

	g.Go(func() error {
		funds, err := s.fundRepo.GetFunds(gctx)
		if err != nil {
			return fmt.Errorf("failed to load funds: %w", err)
		}
		data.Funds = funds
		return nil
	})

	if withAllocations {
		g.Go(func() error {
			allocations, err := s.fundRepo.GetAllocations(gctx, "")
			if err != nil {
				return fmt.Errorf("failed to load fund allocations: %w", err)
			}
			data.Allocations = allocations
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return data, nil
}
