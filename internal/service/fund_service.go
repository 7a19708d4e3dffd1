package service

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/repository"
)

// FundService handles fund metadata, NAV history, category allocations and
// disclosed top holdings.
// NAVs and allocations arrive through manual import; nothing is fetched remotely.
type FundService struct {
	db       *sql.DB
	fundRepo *repository.FundRepository
	now      func() time.Time
}

// NewFundService creates a new FundService with the provided dependencies.
func NewFundService(db *sql.DB, fundRepo *repository.FundRepository) *FundService {
	return &FundService{
		db:       db,
		fundRepo: fundRepo,
		now:      time.Now,
	}
}

// WithClock replaces the time source used for last-updated timestamps.
func (s *FundService) WithClock(now func() time.Time) *FundService {
	s.now = now
	return s
}

// GetFund returns a fund with its latest NAV.
// Returns ErrFundNotFound if the fund does not exist.
func (s *FundService) GetFund(ctx context.Context, fundCode string) (model.FundDetail, error) {
	fund, err := s.fundRepo.GetFund(ctx, fundCode)
	if err != nil {
		return model.FundDetail{}, err
	}

	detail := model.FundDetail{Fund: fund}
	nav, ok, err := s.fundRepo.GetLatestNav(ctx, fundCode)
	if err != nil {
		return model.FundDetail{}, err
	}
	if ok {
		detail.LatestNav = &nav.Nav
		detail.LatestNavDate = &nav.Date
	}
	return detail, nil
}

// UpdateFund creates the fund or replaces its descriptive metadata.
// FundType drives the asset class used by rebalancing.
func (s *FundService) UpdateFund(ctx context.Context, fundCode string, req request.UpdateFundRequest) (model.FundDetail, error) {
	now := s.now()
	fund := model.Fund{
		Code:              fundCode,
		Name:              req.FundName,
		FundType:          req.FundType,
		ManagementCompany: req.ManagementCompany,
		LastUpdated:       &now,
	}
	if err := s.fundRepo.UpsertFund(ctx, fund); err != nil {
		return model.FundDetail{}, err
	}
	return s.GetFund(ctx, fundCode)
}

// GetNavHistory returns the NAV points of a fund in ascending date order,
// optionally bounded by start and end.
// Returns ErrFundNotFound if the fund does not exist.
func (s *FundService) GetNavHistory(ctx context.Context, fundCode string, start, end *time.Time) ([]model.FundNav, error) {
	if _, err := s.fundRepo.GetFund(ctx, fundCode); err != nil {
		return nil, err
	}
	return s.fundRepo.GetNavHistory(ctx, fundCode, start, end)
}

// ImportNavs stores NAV points for a fund, creating a bare fund row when needed.
// Points on dates that already exist overwrite the stored value.
// Returns the number of points written.
func (s *FundService) ImportNavs(ctx context.Context, fundCode string, req request.ImportNavsRequest) (int, error) {
	navs := make([]model.FundNav, 0, len(req.Navs))
	for _, p := range req.Navs {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return 0, fmt.Errorf("invalid nav date %q: %w", p.Date, err)
		}
		navs = append(navs, model.FundNav{FundCode: fundCode, Date: date, Nav: p.Nav})
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		fundRepo := s.fundRepo.WithTx(tx)
		if err := fundRepo.EnsureFund(ctx, fundCode); err != nil {
			return err
		}
		if err := fundRepo.UpsertNavs(ctx, navs); err != nil {
			return err
		}
		return fundRepo.TouchFund(ctx, fundCode, s.now())
	})
	if err != nil {
		return 0, err
	}
	return len(navs), nil
}

// GetAllocations returns a fund's category rows grouped by dimension.
// Every dimension is present in the result, with an empty list when the fund
// reports nothing for it.
// Returns ErrFundNotFound if the fund does not exist.
func (s *FundService) GetAllocations(ctx context.Context, fundCode string) (map[model.Dimension][]model.FundAllocation, error) {
	if _, err := s.fundRepo.GetFund(ctx, fundCode); err != nil {
		return nil, err
	}

	rows, err := s.fundRepo.GetAllocations(ctx, fundCode)
	if err != nil {
		return nil, err
	}

	grouped := make(map[model.Dimension][]model.FundAllocation, len(model.Dimensions))
	for _, d := range model.Dimensions {
		grouped[d] = []model.FundAllocation{}
	}
	for _, a := range rows[fundCode] {
		grouped[a.Dimension] = append(grouped[a.Dimension], a)
	}
	return grouped, nil
}

// OverrideAllocations replaces the fund's rows on every dimension present in
// entries with the given manual rows. Dimensions not mentioned keep their rows.
// Returns ErrFundNotFound if the fund does not exist.
func (s *FundService) OverrideAllocations(ctx context.Context, fundCode string, entries []request.AllocationEntry) (map[model.Dimension][]model.FundAllocation, error) {
	if _, err := s.fundRepo.GetFund(ctx, fundCode); err != nil {
		return nil, err
	}

	var dimensions []model.Dimension
	rows := make([]model.FundAllocation, 0, len(entries))
	for _, e := range entries {
		dimension, err := model.ParseDimension(e.Dimension)
		if err != nil {
			return nil, err
		}
		if !slices.Contains(dimensions, dimension) {
			dimensions = append(dimensions, dimension)
		}

		row := model.FundAllocation{
			ID:         uuid.New().String(),
			FundCode:   fundCode,
			Dimension:  dimension,
			Category:   e.Category,
			Percentage: e.Percentage,
			Source:     model.AllocationSourceManual,
		}
		if e.ReportDate != "" {
			d, err := time.Parse("2006-01-02", e.ReportDate)
			if err != nil {
				return nil, fmt.Errorf("invalid report date %q: %w", e.ReportDate, err)
			}
			row.ReportDate = &d
		}
		rows = append(rows, row)
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		fundRepo := s.fundRepo.WithTx(tx)
		if err := fundRepo.DeleteAllocations(ctx, fundCode, dimensions); err != nil {
			return err
		}
		return fundRepo.InsertAllocations(ctx, rows)
	})
	if err != nil {
		return nil, err
	}

	return s.GetAllocations(ctx, fundCode)
}

// GetTopHoldings returns the disclosed top holdings of a fund, largest first.
// Returns ErrFundNotFound if the fund does not exist.
func (s *FundService) GetTopHoldings(ctx context.Context, fundCode string) ([]model.FundTopHolding, error) {
	if _, err := s.fundRepo.GetFund(ctx, fundCode); err != nil {
		return nil, err
	}
	return s.fundRepo.GetTopHoldings(ctx, fundCode)
}

// ReplaceTopHoldings stores a new disclosure of the fund's top holdings. The
// previous disclosure is discarded as a whole.
// Returns ErrFundNotFound if the fund does not exist.
func (s *FundService) ReplaceTopHoldings(ctx context.Context, fundCode string, entries []request.TopHoldingEntry) ([]model.FundTopHolding, error) {
	if _, err := s.fundRepo.GetFund(ctx, fundCode); err != nil {
		return nil, err
	}

	holdings := make([]model.FundTopHolding, 0, len(entries))
	for _, e := range entries {
		h := model.FundTopHolding{
			ID:         uuid.New().String(),
			FundCode:   fundCode,
			StockCode:  e.StockCode,
			StockName:  e.StockName,
			Percentage: e.Percentage,
		}
		if e.ReportDate != "" {
			d, err := time.Parse("2006-01-02", e.ReportDate)
			if err != nil {
				return nil, fmt.Errorf("invalid report date %q: %w", e.ReportDate, err)
			}
			h.ReportDate = &d
		}
		holdings = append(holdings, h)
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		fundRepo := s.fundRepo.WithTx(tx)
		if err := fundRepo.ReplaceTopHoldings(ctx, fundCode, holdings); err != nil {
			return err
		}
		return fundRepo.TouchFund(ctx, fundCode, s.now())
	})
	if err != nil {
		return nil, err
	}

	return s.fundRepo.GetTopHoldings(ctx, fundCode)
}
