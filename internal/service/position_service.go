package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/repository"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/strategy"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/valuation"
)

// PositionService manages the investment budget and its target band, the
// strategy configuration, and runs the active strategy against the current
// portfolio.
type PositionService struct {
	db           *sql.DB
	positionRepo *repository.PositionRepository
	dataLoader   *DataLoaderService
	registry     *strategy.Registry
	log          zerolog.Logger
	now          func() time.Time
}

// NewPositionService creates a new PositionService with the provided dependencies.
func NewPositionService(
	db *sql.DB,
	positionRepo *repository.PositionRepository,
	dataLoader *DataLoaderService,
	registry *strategy.Registry,
	log zerolog.Logger,
) *PositionService {
	return &PositionService{
		db:           db,
		positionRepo: positionRepo,
		dataLoader:   dataLoader,
		registry:     registry,
		log:          log.With().Str("service", "position").Logger(),
		now:          time.Now,
	}
}

// WithClock replaces the time source. The calendar day of the clock is the
// as-of date strategies evaluate against.
func (s *PositionService) WithClock(now func() time.Time) *PositionService {
	s.now = now
	return s
}

// GetStatus returns the budget together with the current valuation against it.
func (s *PositionService) GetStatus(ctx context.Context) (model.PositionStatus, error) {
	pc, budget, err := s.buildContext(ctx)
	if err != nil {
		return model.PositionStatus{}, err
	}
	return positionStatus(pc, budget), nil
}

// UpdateBudget applies a partial update to the budget and its band. A change
// of the total amount is appended to the budget change log in the same
// transaction.
// Returns ErrInvalidTargetBand when the resulting min exceeds the max.
func (s *PositionService) UpdateBudget(ctx context.Context, req request.UpdateBudgetRequest) (model.PositionStatus, error) {
	now := s.now()

	var changed *model.BudgetChangeLog
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		positionRepo := s.positionRepo.WithTx(tx)

		budget, err := positionRepo.GetOrCreateBudget(ctx, now)
		if err != nil {
			return err
		}
		oldBudget := budget.TotalBudget

		if req.TotalBudget != nil {
			budget.TotalBudget = *req.TotalBudget
		}
		if req.TargetPositionMin != nil {
			budget.TargetPositionMin = *req.TargetPositionMin
		}
		if req.TargetPositionMax != nil {
			budget.TargetPositionMax = *req.TargetPositionMax
		}
		if budget.TargetPositionMin > budget.TargetPositionMax {
			return fmt.Errorf("%w: %.2f > %.2f", apperrors.ErrInvalidTargetBand, budget.TargetPositionMin, budget.TargetPositionMax)
		}
		budget.UpdatedAt = now

		if err := positionRepo.UpdateBudget(ctx, &budget); err != nil {
			return err
		}

		if req.TotalBudget != nil && *req.TotalBudget != oldBudget {
			changed = &model.BudgetChangeLog{
				ID:        uuid.New().String(),
				OldBudget: oldBudget,
				NewBudget: *req.TotalBudget,
				Reason:    req.Reason,
				CreatedAt: now,
			}
			return positionRepo.InsertBudgetChangeLog(ctx, changed)
		}
		return nil
	})
	if err != nil {
		return model.PositionStatus{}, err
	}

	if changed != nil {
		s.log.Info().
			Float64("old_budget", changed.OldBudget).
			Float64("new_budget", changed.NewBudget).
			Msg("Total budget changed")
	}

	return s.GetStatus(ctx)
}

// GetBudgetChangeLog returns the history of total budget changes, newest first.
func (s *PositionService) GetBudgetChangeLog(ctx context.Context) ([]model.BudgetChangeLog, error) {
	return s.positionRepo.GetBudgetChangeLogs(ctx)
}

// ListStrategies describes every registered strategy, ordered by name.
func (s *PositionService) ListStrategies() []model.StrategyInfo {
	strategies := s.registry.List()
	infos := make([]model.StrategyInfo, 0, len(strategies))
	for _, st := range strategies {
		infos = append(infos, strategy.Info(st))
	}
	return infos
}

// SetActiveStrategy selects the strategy used for suggestions.
// Returns ErrStrategyNotFound for a name the registry does not know.
func (s *PositionService) SetActiveStrategy(ctx context.Context, name string) (model.PositionStatus, error) {
	if _, ok := s.registry.Get(name); !ok {
		return model.PositionStatus{}, fmt.Errorf("%w: %s", apperrors.ErrStrategyNotFound, name)
	}

	now := s.now()
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		positionRepo := s.positionRepo.WithTx(tx)
		budget, err := positionRepo.GetOrCreateBudget(ctx, now)
		if err != nil {
			return err
		}
		budget.ActiveStrategy = name
		budget.UpdatedAt = now
		return positionRepo.UpdateBudget(ctx, &budget)
	})
	if err != nil {
		return model.PositionStatus{}, err
	}

	s.log.Info().Str("strategy", name).Msg("Active strategy changed")
	return s.GetStatus(ctx)
}

// GetStrategyConfig returns the stored config of a strategy, or an empty config
// when none was stored.
// Returns ErrStrategyNotFound for an unknown strategy.
func (s *PositionService) GetStrategyConfig(ctx context.Context, name string) (model.StrategyConfig, error) {
	if _, ok := s.registry.Get(name); !ok {
		return model.StrategyConfig{}, fmt.Errorf("%w: %s", apperrors.ErrStrategyNotFound, name)
	}

	cfg, ok, err := s.positionRepo.GetStrategyConfig(ctx, name)
	if err != nil {
		return model.StrategyConfig{}, err
	}
	if !ok {
		return model.StrategyConfig{StrategyName: name, Config: map[string]any{}}, nil
	}
	return cfg, nil
}

// UpdateStrategyConfig validates and stores the config of a strategy.
// Returns ErrStrategyNotFound for an unknown strategy and
// ErrInvalidStrategyConfig when the strategy rejects the config.
func (s *PositionService) UpdateStrategyConfig(ctx context.Context, name string, config map[string]any) (model.StrategyConfig, error) {
	st, ok := s.registry.Get(name)
	if !ok {
		return model.StrategyConfig{}, fmt.Errorf("%w: %s", apperrors.ErrStrategyNotFound, name)
	}
	if config == nil {
		config = map[string]any{}
	}
	if err := strategy.ValidateConfig(st, config); err != nil {
		return model.StrategyConfig{}, err
	}

	cfg := model.StrategyConfig{
		StrategyName: name,
		Config:       config,
		UpdatedAt:    s.now(),
	}
	if err := s.positionRepo.UpsertStrategyConfig(ctx, &cfg); err != nil {
		return model.StrategyConfig{}, err
	}
	return cfg, nil
}

// GetContext returns the valuation context the active strategy would see.
func (s *PositionService) GetContext(ctx context.Context) (model.PortfolioContext, error) {
	pc, _, err := s.buildContext(ctx)
	return pc, err
}

// GetSuggestion evaluates the active strategy against the current portfolio.
// Returns ErrNoActiveStrategy when the stored active strategy is not registered.
func (s *PositionService) GetSuggestion(ctx context.Context) (model.StrategyResult, error) {
	pc, budget, err := s.buildContext(ctx)
	if err != nil {
		return model.StrategyResult{}, err
	}

	st, ok := s.registry.Get(budget.ActiveStrategy)
	if !ok {
		return model.StrategyResult{}, fmt.Errorf("%w: %s", apperrors.ErrNoActiveStrategy, budget.ActiveStrategy)
	}

	result := st.Evaluate(pc)
	s.log.Debug().
		Str("strategy", result.StrategyName).
		Int("suggestions", len(result.Suggestions)).
		Msg("Strategy evaluated")
	return result, nil
}

// buildContext loads the budget, then the portfolio and the active strategy's
// config concurrently, and feeds them to the context builder.
func (s *PositionService) buildContext(ctx context.Context) (model.PortfolioContext, model.PositionBudget, error) {
	now := s.now()
	budget, ok, err := s.positionRepo.GetBudget(ctx)
	if err != nil {
		return model.PortfolioContext{}, model.PositionBudget{}, err
	}
	if !ok {
		budget = model.NewDefaultBudget()
	}

	var data *PortfolioData
	var strategyConfig map[string]any
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		data, err = s.dataLoader.LoadPortfolioData(gctx, false)
		return err
	})
	g.Go(func() error {
		cfg, ok, err := s.positionRepo.GetStrategyConfig(gctx, budget.ActiveStrategy)
		if err != nil {
			return err
		}
		if ok {
			strategyConfig = cfg.Config
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.PortfolioContext{}, model.PositionBudget{}, err
	}

	pc := valuation.BuildContext(valuation.ContextInput{
		Holdings:       data.Holdings,
		Prices:         data.Prices(),
		Funds:          data.FundLookup(),
		Budget:         budget,
		StrategyConfig: strategyConfig,
		AsOf:           calendarDay(now),
	})
	return pc, budget, nil
}

func positionStatus(pc model.PortfolioContext, budget model.PositionBudget) model.PositionStatus {
	return model.PositionStatus{
		TotalBudget:       budget.TotalBudget,
		TotalValue:        pc.TotalValue,
		TotalCost:         pc.TotalCost,
		AvailableCash:     pc.AvailableCash,
		PositionRatio:     pc.PositionRatio,
		TargetPositionMin: budget.TargetPositionMin,
		TargetPositionMax: budget.TargetPositionMax,
		ActiveStrategy:    budget.ActiveStrategy,
		IsBelowMin:        pc.PositionRatio < budget.TargetPositionMin,
		IsAboveMax:        pc.PositionRatio > budget.TargetPositionMax,
	}
}
