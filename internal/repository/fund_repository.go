package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/model"
)

// FundRepository provides data access methods for the fund, fund_nav,
// fund_allocation and fund_top_holding tables.
type FundRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewFundRepository creates a new FundRepository with the provided database connection.
func NewFundRepository(db *sql.DB) *FundRepository {
	return &FundRepository{db: db}
}

func (r *FundRepository) WithTx(tx *sql.Tx) *FundRepository {
	return &FundRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *FundRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetFund retrieves a single fund by code.
// Returns ErrFundNotFound if no fund with that code exists.
func (r *FundRepository) GetFund(ctx context.Context, fundCode string) (model.Fund, error) {
	query := `
		SELECT fund_code, fund_name, fund_type, management_company, last_updated
		FROM fund
		WHERE fund_code = ?
	`

	var f model.Fund
	var lastUpdated sql.NullString
	err := r.getQuerier().QueryRowContext(ctx, query, fundCode).Scan(
		&f.Code,
		&f.Name,
		&f.FundType,
		&f.ManagementCompany,
		&lastUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Fund{}, apperrors.ErrFundNotFound
	}
	if err != nil {
		return model.Fund{}, fmt.Errorf("failed to query fund: %w", err)
	}

	if f.LastUpdated, err = parseNullTime(lastUpdated); err != nil {
		return model.Fund{}, err
	}
	return f, nil
}

// GetFunds retrieves every fund keyed by fund code.
func (r *FundRepository) GetFunds(ctx context.Context) (map[string]model.Fund, error) {
	query := `
		SELECT fund_code, fund_name, fund_type, management_company, last_updated
		FROM fund
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund table: %w", err)
	}
	defer rows.Close()

	funds := make(map[string]model.Fund)
	for rows.Next() {
		var f model.Fund
		var lastUpdated sql.NullString
		if err := rows.Scan(&f.Code, &f.Name, &f.FundType, &f.ManagementCompany, &lastUpdated); err != nil {
			return nil, fmt.Errorf("failed to scan fund table results: %w", err)
		}
		if f.LastUpdated, err = parseNullTime(lastUpdated); err != nil {
			return nil, err
		}
		funds[f.Code] = f
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund table: %w", err)
	}

	return funds, nil
}

// EnsureFund inserts a bare fund row for fundCode unless one already exists.
func (r *FundRepository) EnsureFund(ctx context.Context, fundCode string) error {
	query := `INSERT INTO fund (fund_code) VALUES (?) ON CONFLICT (fund_code) DO NOTHING`

	if _, err := r.getQuerier().ExecContext(ctx, query, fundCode); err != nil {
		return fmt.Errorf("failed to insert fund: %w", err)
	}
	return nil
}

// UpsertFund inserts a fund or replaces the metadata of an existing one.
func (r *FundRepository) UpsertFund(ctx context.Context, f model.Fund) error {
	query := `
		INSERT INTO fund (fund_code, fund_name, fund_type, management_company, last_updated)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (fund_code) DO UPDATE SET
			fund_name = excluded.fund_name,
			fund_type = excluded.fund_type,
			management_company = excluded.management_company,
			last_updated = excluded.last_updated
	`

	var lastUpdated any
	if f.LastUpdated != nil {
		lastUpdated = formatTimestamp(*f.LastUpdated)
	}

	_, err := r.getQuerier().ExecContext(ctx, query,
		f.Code,
		f.Name,
		f.FundType,
		f.ManagementCompany,
		lastUpdated,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert fund: %w", err)
	}
	return nil
}

// GetLatestNavs returns the most recent NAV point of every fund that has one,
// keyed by fund code. Funds without any NAV are absent from the map.
func (r *FundRepository) GetLatestNavs(ctx context.Context) (map[string]model.FundNav, error) {
	query := `
		SELECT n.fund_code, n.date, n.nav
		FROM fund_nav n
		INNER JOIN (
			SELECT fund_code, MAX(date) AS latest_date
			FROM fund_nav
			GROUP BY fund_code
		) latest ON n.fund_code = latest.fund_code AND n.date = latest.latest_date
	`

	rows, err := r.getQuerier().QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query latest fund navs: %w", err)
	}
	defer rows.Close()

	navs := make(map[string]model.FundNav)
	for rows.Next() {
		nav, err := scanNav(rows)
		if err != nil {
			return nil, err
		}
		navs[nav.FundCode] = nav
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund navs: %w", err)
	}

	return navs, nil
}

// GetLatestNav returns the most recent NAV point of one fund.
// The boolean is false when the fund has no recorded NAV.
func (r *FundRepository) GetLatestNav(ctx context.Context, fundCode string) (model.FundNav, bool, error) {
	query := `
		SELECT fund_code, date, nav
		FROM fund_nav
		WHERE fund_code = ?
		ORDER BY date DESC
		LIMIT 1
	`

	var nav model.FundNav
	var dateStr string
	err := r.getQuerier().QueryRowContext(ctx, query, fundCode).Scan(&nav.FundCode, &dateStr, &nav.Nav)
	if errors.Is(err, sql.ErrNoRows) {
		return model.FundNav{}, false, nil
	}
	if err != nil {
		return model.FundNav{}, false, fmt.Errorf("failed to query latest fund nav: %w", err)
	}

	if nav.Date, err = ParseTime(dateStr); err != nil {
		return model.FundNav{}, false, err
	}
	return nav, true, nil
}

// GetNavHistory returns the NAV points of a fund in ascending date order.
// A nil start or end leaves that side of the range open.
func (r *FundRepository) GetNavHistory(ctx context.Context, fundCode string, start, end *time.Time) ([]model.FundNav, error) {
	query := `
		SELECT fund_code, date, nav
		FROM fund_nav
		WHERE fund_code = ?
	`
	args := []any{fundCode}

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
		return nil, fmt.Errorf("failed to query fund nav history: %w", err)
	}
	defer rows.Close()

	navs := []model.FundNav{}
	for rows.Next() {
		nav, err := scanNav(rows)
		if err != nil {
			return nil, err
		}
		navs = append(navs, nav)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund nav history: %w", err)
	}

	return navs, nil
}

// UpsertNavs inserts NAV points, replacing the value of any point that already
// exists for the same fund and date.
func (r *FundRepository) UpsertNavs(ctx context.Context, navs []model.FundNav) error {
	query := `
		INSERT INTO fund_nav (fund_code, date, nav)
		VALUES (?, ?, ?)
		ON CONFLICT (fund_code, date) DO UPDATE SET nav = excluded.nav
	`

	for _, nav := range navs {
		if _, err := r.getQuerier().ExecContext(ctx, query, nav.FundCode, formatDate(nav.Date), nav.Nav); err != nil {
			return fmt.Errorf("failed to upsert fund nav for %s on %s: %w", nav.FundCode, formatDate(nav.Date), err)
		}
	}
	return nil
}

// TouchFund sets a fund's last_updated timestamp.
func (r *FundRepository) TouchFund(ctx context.Context, fundCode string, at time.Time) error {
	query := `UPDATE fund SET last_updated = ? WHERE fund_code = ?`

	if _, err := r.getQuerier().ExecContext(ctx, query, formatTimestamp(at), fundCode); err != nil {
		return fmt.Errorf("failed to update fund timestamp: %w", err)
	}
	return nil
}

// GetAllocations returns the category rows of every fund, all dimensions mixed,
// keyed by fund code. An empty fundCode selects every fund.
func (r *FundRepository) GetAllocations(ctx context.Context, fundCode string) (map[string][]model.FundAllocation, error) {
	query := `
		SELECT id, fund_code, dimension, category, percentage, source, report_date
		FROM fund_allocation
	`
	var args []any
	if fundCode != "" {
		query += ` WHERE fund_code = ?`
		args = append(args, fundCode)
	}
	query += ` ORDER BY fund_code, dimension, percentage DESC`

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund allocations: %w", err)
	}
	defer rows.Close()

	allocations := make(map[string][]model.FundAllocation)
	for rows.Next() {
		var a model.FundAllocation
		var dimension string
		var reportDate sql.NullString
		err := rows.Scan(
			&a.ID,
			&a.FundCode,
			&dimension,
			&a.Category,
			&a.Percentage,
			&a.Source,
			&reportDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund allocation: %w", err)
		}
		a.Dimension = model.Dimension(dimension)
		if a.ReportDate, err = parseNullTime(reportDate); err != nil {
			return nil, err
		}
		allocations[a.FundCode] = append(allocations[a.FundCode], a)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund allocations: %w", err)
	}

	return allocations, nil
}

// DeleteAllocations removes the rows of one fund on the given dimensions.
func (r *FundRepository) DeleteAllocations(ctx context.Context, fundCode string, dimensions []model.Dimension) error {
	if len(dimensions) == 0 {
		return nil
	}

	dims := make([]string, len(dimensions))
	for i, d := range dimensions {
		dims[i] = string(d)
	}

	//#nosec G202 -- Safe: placeholders are generated programmatically, not from user input
	query := `DELETE FROM fund_allocation WHERE fund_code = ? AND dimension IN (` + placeholders(len(dims)) + `)`
	args := append([]any{fundCode}, stringArgs(dims)...)

	if _, err := r.getQuerier().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to delete fund allocations: %w", err)
	}
	return nil
}

// InsertAllocations inserts category rows.
func (r *FundRepository) InsertAllocations(ctx context.Context, allocations []model.FundAllocation) error {
	query := `
		INSERT INTO fund_allocation (id, fund_code, dimension, category, percentage, source, report_date)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	for _, a := range allocations {
		_, err := r.getQuerier().ExecContext(ctx, query,
			a.ID,
			a.FundCode,
			string(a.Dimension),
			a.Category,
			a.Percentage,
			a.Source,
			nullDate(a.ReportDate),
		)
		if err != nil {
			return fmt.Errorf("failed to insert fund allocation: %w", err)
		}
	}
	return nil
}

// GetTopHoldings returns the disclosed top holdings of a fund, largest first.
func (r *FundRepository) GetTopHoldings(ctx context.Context, fundCode string) ([]model.FundTopHolding, error) {
	query := `
		SELECT id, fund_code, stock_code, stock_name, percentage, report_date
		FROM fund_top_holding
		WHERE fund_code = ?
		ORDER BY percentage DESC, stock_code ASC
	`

	rows, err := r.getQuerier().QueryContext(ctx, query, fundCode)
	if err != nil {
		return nil, fmt.Errorf("failed to query fund top holdings: %w", err)
	}
	defer rows.Close()

	holdings := []model.FundTopHolding{}
	for rows.Next() {
		var h model.FundTopHolding
		var reportDate sql.NullString
		err := rows.Scan(
			&h.ID,
			&h.FundCode,
			&h.StockCode,
			&h.StockName,
			&h.Percentage,
			&reportDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fund top holding: %w", err)
		}
		if h.ReportDate, err = parseNullTime(reportDate); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fund top holdings: %w", err)
	}

	return holdings, nil
}

// ReplaceTopHoldings removes every top holding of a fund and inserts the given rows.
func (r *FundRepository) ReplaceTopHoldings(ctx context.Context, fundCode string, holdings []model.FundTopHolding) error {
	if _, err := r.getQuerier().ExecContext(ctx, `DELETE FROM fund_top_holding WHERE fund_code = ?`, fundCode); err != nil {
		return fmt.Errorf("failed to delete fund top holdings: %w", err)
	}

	query := `
		INSERT INTO fund_top_holding (id, fund_code, stock_code, stock_name, percentage, report_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, h := range holdings {
		_, err := r.getQuerier().ExecContext(ctx, query,
			h.ID,
			fundCode,
			h.StockCode,
			h.StockName,
			h.Percentage,
			nullDate(h.ReportDate),
		)
		if err != nil {
			return fmt.Errorf("failed to insert fund top holding %s: %w", h.StockCode, err)
		}
	}
	return nil
}

func scanNav(rows *sql.Rows) (model.FundNav, error) {
	var nav model.FundNav
	var dateStr string
	if err := rows.Scan(&nav.FundCode, &dateStr, &nav.Nav); err != nil {
		return model.FundNav{}, fmt.Errorf("failed to scan fund nav: %w", err)
	}
	date, err := ParseTime(dateStr)
	if err != nil {
		return model.FundNav{}, err
	}
	nav.Date = date
	return nav, nil
}
