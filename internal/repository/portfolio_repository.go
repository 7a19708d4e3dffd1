package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// PortfolioRepository provides data access methods for the portfolio_snapshot table.
type PortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *PortfolioRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// UpsertSnapshot stores the valuation of one day, replacing an earlier snapshot
// of the same date.
func (r *PortfolioRepository) UpsertSnapshot(ctx context.Context, s model.PortfolioSnapshot) error {
	query := `
		INSERT INTO portfolio_snapshot (date, total_value, total_cost, total_pnl)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			total_value = excluded.total_value,
			total_cost = excluded.total_cost,
			total_pnl = excluded.total_pnl
	`

	_, err := r.getQuerier().ExecContext(ctx, query,
		formatDate(s.Date),
		s.TotalValue,
		s.TotalCost,
		s.TotalPnl,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert portfolio snapshot: %w", err)
	}
	return nil
}

// GetSnapshots returns the stored snapshots in ascending date order.
// A nil start or end leaves that side of the range open.
func (r *PortfolioRepository) GetSnapshots(ctx context.Context, start, end *time.Time) ([]model.PortfolioSnapshot, error) {
	query := `
		SELECT date, total_value, total_cost, total_pnl
		FROM portfolio_snapshot
		WHERE 1 = 1
	`
	var args []any
	if start != nil {
		query += ` AND date >= ?`
		args = append(args, formatDate(*start))
	}
	if end != nil {
		query += ` AND date <= ?`
		args = append(args, formatDate(*end))
	}
	query += ` ORDER BY date ASC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []model.PortfolioSnapshot{}
	for rows.Next() {
		var s model.PortfolioSnapshot
		var date string
		if err := rows.Scan(&date, &s.TotalValue, &s.TotalCost, &s.TotalPnl); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio snapshot: %w", err)
		}
		if s.Date, err = ParseTime(date); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio snapshots: %w", err)
	}

	return snapshots, nil
}
