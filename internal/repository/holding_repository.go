package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// HoldingRepository provides data access methods for the holding and
// holding_change_log tables.
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HoldingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const holdingColumns = `id, fund_code, platform, shares, cost_price, purchase_date, created_at, updated_at`

// GetHoldings retrieves all holdings in creation order.
// Returns an empty slice if there are none.
func (r *HoldingRepository) GetHoldings(ctx context.Context) ([]model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding ORDER BY created_at ASC, id ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		h, err := scanHolding(rows)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding table: %w", err)
	}

	return holdings, nil
}

// GetHolding retrieves a single holding by ID.
// Returns ErrHoldingNotFound if it does not exist.
func (r *HoldingRepository) GetHolding(ctx context.Context, holdingID string) (model.Holding, error) {
	query := `SELECT ` + holdingColumns + ` FROM holding WHERE id = ?`

	h, err := scanHolding(r.getQuerier().QueryRowContext(ctx, query, holdingID))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, apperrors.ErrHoldingNotFound
	}
	if err != nil {
		return model.Holding{}, err
	}
	return h, nil
}

// InsertHolding inserts a new holding.
func (r *HoldingRepository) InsertHolding(ctx context.Context, h *model.Holding) error {
	query := `
		INSERT INTO holding (` + holdingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		h.ID,
		h.FundCode,
		h.Platform,
		h.Shares,
		h.CostPrice,
		formatDate(h.PurchaseDate),
		formatTimestamp(h.CreatedAt),
		formatTimestamp(h.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert holding: %w", err)
	}
	return nil
}

// UpdateHolding overwrites every mutable column of a holding.
// Returns ErrHoldingNotFound if it does not exist.
func (r *HoldingRepository) UpdateHolding(ctx context.Context, h *model.Holding) error {
	query := `
		UPDATE holding
		SET fund_code = ?, platform = ?, shares = ?, cost_price = ?, purchase_date = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.getQuerier().ExecContext(ctx, query,
		h.FundCode,
		h.Platform,
		h.Shares,
		h.CostPrice,
		formatDate(h.PurchaseDate),
		formatTimestamp(h.UpdatedAt),
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}
	return expectOneRow(result, apperrors.ErrHoldingNotFound)
}

// DeleteHolding removes a holding. Its change log is removed by cascade.
// Returns ErrHoldingNotFound if it does not exist.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, holdingID string) error {
	query := `DELETE FROM holding WHERE id = ?`

	result, err := r.getQuerier().ExecContext(ctx, query, holdingID)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return expectOneRow(result, apperrors.ErrHoldingNotFound)
}

// InsertChangeLog appends an entry to a holding's change log.
func (r *HoldingRepository) InsertChangeLog(ctx context.Context, l *model.HoldingChangeLog) error {
	query := `
		INSERT INTO holding_change_log
			(id, holding_id, change_date, old_shares, new_shares, old_cost_price, new_cost_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		l.ID,
		l.HoldingID,
		formatDate(l.ChangeDate),
		l.OldShares,
		l.NewShares,
		l.OldCostPrice,
		l.NewCostPrice,
		formatTimestamp(l.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert holding change log: %w", err)
	}
	return nil
}

// GetChangeLogs returns a holding's change log, most recent change first.
// SharesDiff is derived from the stored old and new share counts.
func (r *HoldingRepository) GetChangeLogs(ctx context.Context, holdingID string) ([]model.HoldingChangeLog, error) {
	query := `
		SELECT id, holding_id, change_date, old_shares, new_shares, old_cost_price, new_cost_price, created_at
		FROM holding_change_log
		WHERE holding_id = ?
		ORDER BY change_date DESC, created_at DESC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, holdingID)
	if err != nil {
		return nil, fmt.Errorf("failed to query holding change log: %w", err)
	}
	defer rows.Close()

	logs := []model.HoldingChangeLog{}
	for rows.Next() {
		var l model.HoldingChangeLog
		var changeDate, createdAt string
		err := rows.Scan(
			&l.ID,
			&l.HoldingID,
			&changeDate,
			&l.OldShares,
			&l.NewShares,
			&l.OldCostPrice,
			&l.NewCostPrice,
			&createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan holding change log: %w", err)
		}
		if l.ChangeDate, err = ParseTime(changeDate); err != nil {
			return nil, err
		}
		if l.CreatedAt, err = ParseTime(createdAt); err != nil {
			return nil, err
		}
		l.SharesDiff = l.NewShares - l.OldShares
		logs = append(logs, l)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holding change log: %w", err)
	}

	return logs, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHolding(row rowScanner) (model.Holding, error) {
	var h model.Holding
	var purchaseDate, createdAt, updatedAt string
	err := row.Scan(
		&h.ID,
		&h.FundCode,
		&h.Platform,
		&h.Shares,
		&h.CostPrice,
		&purchaseDate,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Holding{}, err
	}
	if err != nil {
		return model.Holding{}, fmt.Errorf("failed to scan holding: %w", err)
	}

	if h.PurchaseDate, err = ParseTime(purchaseDate); err != nil {
		return model.Holding{}, err
	}
	if h.CreatedAt, err = ParseTime(createdAt); err != nil {
		return model.Holding{}, err
	}
	if h.UpdatedAt, err = ParseTime(updatedAt); err != nil {
		return model.Holding{}, err
	}
	return h, nil
}

// expectOneRow maps a zero RowsAffected to notFound.
func expectOneRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
