package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/repository"
)

// HoldingService handles purchase lots and their snapshot change log.
type HoldingService struct {
	db          *sql.DB
	holdingRepo *repository.HoldingRepository
	fundRepo    *repository.FundRepository
	dataLoader  *DataLoaderService
	now         func() time.Time
}

// NewHoldingService creates a new HoldingService with the provided dependencies.
func NewHoldingService(
	db *sql.DB,
	holdingRepo *repository.HoldingRepository,
	fundRepo *repository.FundRepository,
	dataLoader *DataLoaderService,
) *HoldingService {
	return &HoldingService{
		db:          db,
		holdingRepo: holdingRepo,
		fundRepo:    fundRepo,
		dataLoader:  dataLoader,
		now:         time.Now,
	}
}

// WithClock replaces the time source used for timestamps and default dates.
func (s *HoldingService) WithClock(now func() time.Time) *HoldingService {
	s.now = now
	return s
}

// GetHoldings returns every holding enriched with its fund name and latest valuation.
func (s *HoldingService) GetHoldings(ctx context.Context) ([]model.HoldingResponse, error) {
	data, err := s.dataLoader.LoadPortfolioData(ctx, false)
	if err != nil {
		return nil, err
	}

	holdings := make([]model.HoldingResponse, 0, len(data.Holdings))
	for _, h := range data.Holdings {
		nav, priced := data.LatestNavs[h.FundCode]
		holdings = append(holdings, enrichHolding(h, data.Funds[h.FundCode].Name, nav, priced))
	}
	return holdings, nil
}

// GetHolding returns one enriched holding.
// Returns ErrHoldingNotFound if it does not exist.
func (s *HoldingService) GetHolding(ctx context.Context, holdingID string) (model.HoldingResponse, error) {
	h, err := s.holdingRepo.GetHolding(ctx, holdingID)
	if err != nil {
		return model.HoldingResponse{}, err
	}
	return s.enrich(ctx, h)
}

// CreateHolding records a new lot. A bare fund row is created when the fund
// code has not been seen before.
func (s *HoldingService) CreateHolding(ctx context.Context, req request.CreateHoldingRequest) (model.HoldingResponse, error) {
	purchaseDate, err := time.Parse("2006-01-02", req.PurchaseDate)
	if err != nil {
		return model.HoldingResponse{}, fmt.Errorf("invalid purchase date: %w", err)
	}

	now := s.now()
	holding := model.Holding{
		ID:           uuid.New().String(),
		FundCode:     req.FundCode,
		Platform:     req.Platform,
		Shares:       req.Shares,
		CostPrice:    req.CostPrice,
		PurchaseDate: purchaseDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.fundRepo.WithTx(tx).EnsureFund(ctx, holding.FundCode); err != nil {
			return err
		}
		return s.holdingRepo.WithTx(tx).InsertHolding(ctx, &holding)
	})
	if err != nil {
		return model.HoldingResponse{}, fmt.Errorf("failed to create holding: %w", err)
	}

	return s.enrich(ctx, holding)
}

// UpdateHolding applies a partial update to a lot.
// Returns ErrHoldingNotFound if it does not exist.
func (s *HoldingService) UpdateHolding(ctx context.Context, holdingID string, req request.UpdateHoldingRequest) (model.HoldingResponse, error) {
	holding, err := s.holdingRepo.GetHolding(ctx, holdingID)
	if err != nil {
		return model.HoldingResponse{}, err
	}

	if req.Platform != nil {
		holding.Platform = *req.Platform
	}
	if req.Shares != nil {
		holding.Shares = *req.Shares
	}
	if req.CostPrice != nil {
		holding.CostPrice = *req.CostPrice
	}
	if req.PurchaseDate != nil {
		purchaseDate, err := time.Parse("2006-01-02", *req.PurchaseDate)
		if err != nil {
			return model.HoldingResponse{}, fmt.Errorf("invalid purchase date: %w", err)
		}
		holding.PurchaseDate = purchaseDate
	}
	holding.UpdatedAt = s.now()

	if err := s.holdingRepo.UpdateHolding(ctx, &holding); err != nil {
		return model.HoldingResponse{}, err
	}

	return s.enrich(ctx, holding)
}

// DeleteHolding removes a lot together with its change log.
// Returns ErrHoldingNotFound if it does not exist.
func (s *HoldingService) DeleteHolding(ctx context.Context, holdingID string) error {
	return s.holdingRepo.DeleteHolding(ctx, holdingID)
}

// UpdateSnapshot replaces a lot's shares and cost price with the figures the
// platform currently reports and appends the change to the lot's log. Both
// writes happen in one transaction.
// Returns ErrHoldingNotFound if the holding does not exist.
func (s *HoldingService) UpdateSnapshot(ctx context.Context, holdingID string, req request.SnapshotUpdateRequest) (model.HoldingChangeLog, error) {
	now := s.now()
	changeDate := calendarDay(now)
	if req.ChangeDate != "" {
		d, err := time.Parse("2006-01-02", req.ChangeDate)
		if err != nil {
			return model.HoldingChangeLog{}, fmt.Errorf("invalid change date: %w", err)
		}
		changeDate = d
	}

	var entry model.HoldingChangeLog
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		holdingRepo := s.holdingRepo.WithTx(tx)

		holding, err := holdingRepo.GetHolding(ctx, holdingID)
		if err != nil {
			return err
		}

		entry = model.HoldingChangeLog{
			ID:           uuid.New().String(),
			HoldingID:    holding.ID,
			ChangeDate:   changeDate,
			OldShares:    holding.Shares,
			NewShares:    req.Shares,
			OldCostPrice: holding.CostPrice,
			NewCostPrice: req.CostPrice,
			SharesDiff:   req.Shares - holding.Shares,
			CreatedAt:    now,
		}

		holding.Shares = req.Shares
		holding.CostPrice = req.CostPrice
		holding.UpdatedAt = now

		if err := holdingRepo.UpdateHolding(ctx, &holding); err != nil {
			return err
		}
		return holdingRepo.InsertChangeLog(ctx, &entry)
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrHoldingNotFound) {
			return model.HoldingChangeLog{}, err
		}
		return model.HoldingChangeLog{}, fmt.Errorf("failed to update holding snapshot: %w", err)
	}

	return entry, nil
}

// GetChangeLog returns the snapshot history of a lot, newest first.
// Returns ErrHoldingNotFound if the holding does not exist.
func (s *HoldingService) GetChangeLog(ctx context.Context, holdingID string) ([]model.HoldingChangeLog, error) {
	if _, err := s.holdingRepo.GetHolding(ctx, holdingID); err != nil {
		return nil, err
	}
	return s.holdingRepo.GetChangeLogs(ctx, holdingID)
}

func (s *HoldingService) enrich(ctx context.Context, h model.Holding) (model.HoldingResponse, error) {
	var fundName string
	fund, err := s.fundRepo.GetFund(ctx, h.FundCode)
	switch {
	case err == nil:
		fundName = fund.Name
	case !errors.Is(err, apperrors.ErrFundNotFound):
		return model.HoldingResponse{}, err
	}

	nav, priced, err := s.fundRepo.GetLatestNav(ctx, h.FundCode)
	if err != nil {
		return model.HoldingResponse{}, err
	}
	return enrichHolding(h, fundName, nav, priced), nil
}

// enrichHolding values one lot. Without a known NAV the valuation fields stay nil.
func enrichHolding(h model.Holding, fundName string, nav model.FundNav, priced bool) model.HoldingResponse {
	resp := model.HoldingResponse{
		Holding:  h,
		FundName: fundName,
	}
	if !priced {
		return resp
	}

	latestNav := nav.Nav
	latestNavDate := nav.Date
	marketValue := h.Shares * nav.Nav
	pnl := marketValue - h.Cost()

	resp.LatestNav = &latestNav
	resp.LatestNavDate = &latestNavDate
	resp.MarketValue = &marketValue
	resp.Pnl = &pnl
	if cost := h.Cost(); cost > 0 {
		pnlPercent := pnl / cost * 100
		resp.PnlPercent = &pnlPercent
	}
	return resp
}
