package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// budgetRowID is the primary key of the singleton position_budget row.
const budgetRowID = 1

// PositionRepository provides data access methods for the position budget,
// its change log and the stored strategy configurations.
type PositionRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPositionRepository creates a new PositionRepository with the provided database connection.
func NewPositionRepository(db *sql.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

func (r *PositionRepository) WithTx(tx *sql.Tx) *PositionRepository {
	return &PositionRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PositionRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetBudget returns the singleton budget.
// The boolean is false when no budget has been stored yet.
func (r *PositionRepository) GetBudget(ctx context.Context) (model.PositionBudget, bool, error) {
	query := `
		SELECT id, total_budget, target_position_min, target_position_max, active_strategy, updated_at
		FROM position_budget
		WHERE id = ?
	`

	var b model.PositionBudget
	var updatedAt string
	err := r.getQuerier().QueryRowContext(ctx, query, budgetRowID).Scan(
		&b.ID,
		&b.TotalBudget,
		&b.TargetPositionMin,
		&b.TargetPositionMax,
		&b.ActiveStrategy,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PositionBudget{}, false, nil
	}
	if err != nil {
		return model.PositionBudget{}, false, fmt.Errorf("failed to query position budget: %w", err)
	}
	if b.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.PositionBudget{}, false, err
	}
	return b, true, nil
}

// GetOrCreateBudget returns the singleton budget, inserting the default row
// when none exists yet. Only write paths call it.
func (r *PositionRepository) GetOrCreateBudget(ctx context.Context, now time.Time) (model.PositionBudget, error) {
	b, ok, err := r.GetBudget(ctx)
	if err != nil {
		return model.PositionBudget{}, err
	}
	if ok {
		return b, nil
	}

	b = model.NewDefaultBudget()
	b.ID = budgetRowID
	b.UpdatedAt = now
	insert := `
		INSERT INTO position_budget (id, total_budget, target_position_min, target_position_max, active_strategy, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err = r.getQuerier().ExecContext(ctx, insert,
		b.ID,
		b.TotalBudget,
		b.TargetPositionMin,
		b.TargetPositionMax,
		b.ActiveStrategy,
		formatTimestamp(now),
	)
	if err != nil {
		return model.PositionBudget{}, fmt.Errorf("failed to create position budget: %w", err)
	}
	return b, nil
}

// UpdateBudget overwrites the singleton budget.
func (r *PositionRepository) UpdateBudget(ctx context.Context, b *model.PositionBudget) error {
	query := `
		UPDATE position_budget
		SET total_budget = ?, target_position_min = ?, target_position_max = ?, active_strategy = ?, updated_at = ?
		WHERE id = ?
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		b.TotalBudget,
		b.TargetPositionMin,
		b.TargetPositionMax,
		b.ActiveStrategy,
		formatTimestamp(b.UpdatedAt),
		budgetRowID,
	)
	if err != nil {
		return fmt.Errorf("failed to update position budget: %w", err)
	}
	return nil
}

// InsertBudgetChangeLog appends an entry to the budget change log.
func (r *PositionRepository) InsertBudgetChangeLog(ctx context.Context, l *model.BudgetChangeLog) error {
	query := `
		INSERT INTO budget_change_log (id, old_budget, new_budget, reason, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		l.ID,
		l.OldBudget,
		l.NewBudget,
		l.Reason,
		formatTimestamp(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert budget change log: %w", err)
	}
	return nil
}

// GetBudgetChangeLogs returns the budget change log, newest first.
func (r *PositionRepository) GetBudgetChangeLogs(ctx context.Context) ([]model.BudgetChangeLog, error) {
	query := `
		SELECT id, old_budget, new_budget, reason, created_at
		FROM budget_change_log
		ORDER BY created_at DESC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query budget change log: %w", err)
	}
	defer rows.Close()

	logs := []model.BudgetChangeLog{}
	for rows.Next() {
		var l model.BudgetChangeLog
		var createdAt string
		if err := rows.Scan(&l.ID, &l.OldBudget, &l.NewBudget, &l.Reason, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan budget change log: %w", err)
		}
		if l.CreatedAt, err = ParseTime(createdAt); err != nil {
			return nil, err
		}
		logs = append(logs, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating budget change log: %w", err)
	}

	return logs, nil
}

// GetStrategyConfig returns the stored config of a strategy.
// The boolean is false when nothing has been stored for it.
func (r *PositionRepository) GetStrategyConfig(ctx context.Context, strategyName string) (model.StrategyConfig, bool, error) {
	query := `
		SELECT strategy_name, config_json, updated_at
		FROM strategy_config
		WHERE strategy_name = ?
	`

	var c model.StrategyConfig
	var configJSON, updatedAt string
	err := r.getQuerier().QueryRowContext(ctx, query, strategyName).Scan(&c.StrategyName, &configJSON, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.StrategyConfig{}, false, nil
	}
	if err != nil {
		return model.StrategyConfig{}, false, fmt.Errorf("failed to query strategy config: %w", err)
	}

	if err := json.Unmarshal([]byte(configJSON), &c.Config); err != nil {
		return model.StrategyConfig{}, false, fmt.Errorf("failed to decode strategy config %s: %w", strategyName, err)
	}
	if c.Config == nil {
		c.Config = map[string]any{}
	}
	if c.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.StrategyConfig{}, false, err
	}
	return c, true, nil
}

// UpsertStrategyConfig stores the config of a strategy, replacing any previous one.
func (r *PositionRepository) UpsertStrategyConfig(ctx context.Context, c *model.StrategyConfig) error {
	cfg := c.Config
	if cfg == nil {
		cfg = map[string]any{}
	}
	configJSON, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode strategy config: %w", err)
	}

	query := `
		INSERT INTO strategy_config (strategy_name, config_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (strategy_name) DO UPDATE SET
			config_json = excluded.config_json,
			updated_at = excluded.updated_at
	`

	if _, err := r.getQuerier().ExecContext(ctx, query, c.StrategyName, string(configJSON), formatTimestamp(c.UpdatedAt)); err != nil {
		return fmt.Errorf("failed to upsert strategy config: %w", err)
	}
	return nil
}
