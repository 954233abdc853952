package fundstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS fund_details (
	fund_code    TEXT PRIMARY KEY,
	fund_name    TEXT NOT NULL,
	company_name TEXT NOT NULL DEFAULT '',
	fund_type    TEXT NOT NULL DEFAULT '',
	beta         REAL NOT NULL DEFAULT 0,
	sharpe       REAL NOT NULL DEFAULT 0,
	volatility   REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS fund_prices (
	fund_code TEXT NOT NULL,
	date      TEXT NOT NULL,
	price     REAL NOT NULL,
	PRIMARY KEY (fund_code, date)
);

CREATE INDEX IF NOT EXISTS idx_fund_prices_date ON fund_prices (date);
`

// returnsCTE computes each fund's window return from the first and
// last price inside the window.
const returnsCTE = `
WITH bounds AS (
	SELECT fund_code, MIN(date) AS first_date, MAX(date) AS last_date
	FROM fund_prices
	WHERE date >= ?
	GROUP BY fund_code
)
SELECT d.fund_code, d.fund_name, d.company_name, d.fund_type,
       d.beta, d.sharpe, d.volatility,
       CASE WHEN fp1.price > 0
            THEN (fp2.price - fp1.price) / fp1.price * 100
            ELSE 0 END AS ret
FROM bounds b
JOIN fund_prices fp1 ON fp1.fund_code = b.fund_code AND fp1.date = b.first_date
JOIN fund_prices fp2 ON fp2.fund_code = b.fund_code AND fp2.date = b.last_date
JOIN fund_details d ON d.fund_code = b.fund_code
`

// SQLiteStore implements Store on an embedded sqlite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and bootstraps) a sqlite-backed store. Pass
// ":memory:" for an ephemeral database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// table-lock errors under concurrent handlers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("bootstrap schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// UpsertFund inserts or replaces one fund-details row.
func (s *SQLiteStore) UpsertFund(ctx context.Context, f Fund) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fund_details (fund_code, fund_name, company_name, fund_type, beta, sharpe, volatility)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fund_code) DO UPDATE SET
			fund_name = excluded.fund_name,
			company_name = excluded.company_name,
			fund_type = excluded.fund_type,
			beta = excluded.beta,
			sharpe = excluded.sharpe,
			volatility = excluded.volatility`,
		f.Code, f.Name, f.Company, f.Type, f.Beta, f.Sharpe, f.Volatility)
	return err
}

// AddPrice records one price observation.
func (s *SQLiteStore) AddPrice(ctx context.Context, code string, date time.Time, price float64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fund_prices (fund_code, date, price)
		VALUES (?, ?, ?)
		ON CONFLICT(fund_code, date) DO UPDATE SET price = excluded.price`,
		code, date.Format("2006-01-02"), price)
	return err
}

func windowStart(days int) string {
	if days <= 0 {
		days = 30
	}
	return time.Now().AddDate(0, 0, -days).Format("2006-01-02")
}

func (s *SQLiteStore) queryPerformance(ctx context.Context, query string, args ...any) ([]FundPerformance, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fund performance: %w", err)
	}
	defer rows.Close()

	var out []FundPerformance
	for rows.Next() {
		var fp FundPerformance
		if err := rows.Scan(&fp.Code, &fp.Name, &fp.Company, &fp.Type,
			&fp.Beta, &fp.Sharpe, &fp.Volatility, &fp.ReturnPct); err != nil {
			return nil, err
		}
		out = append(out, fp)
	}
	return out, rows.Err()
}

// SafestFunds returns the lowest-volatility funds active in the window.
func (s *SQLiteStore) SafestFunds(ctx context.Context, days, count int) ([]FundPerformance, error) {
	return s.queryPerformance(ctx, returnsCTE+" ORDER BY d.volatility ASC LIMIT ?", windowStart(days), count)
}

// TopGainers returns the highest window returns.
func (s *SQLiteStore) TopGainers(ctx context.Context, days, count int) ([]FundPerformance, error) {
	return s.queryPerformance(ctx, returnsCTE+" ORDER BY ret DESC LIMIT ?", windowStart(days), count)
}

// WorstFunds returns the lowest window returns.
func (s *SQLiteStore) WorstFunds(ctx context.Context, days, count int) ([]FundPerformance, error) {
	return s.queryPerformance(ctx, returnsCTE+" ORDER BY ret ASC LIMIT ?", windowStart(days), count)
}

// FundsByCompany returns a company's funds ordered by window return.
func (s *SQLiteStore) FundsByCompany(ctx context.Context, company string, days, count int) ([]FundPerformance, error) {
	return s.queryPerformance(ctx,
		returnsCTE+" WHERE d.company_name LIKE '%' || ? || '%' ORDER BY ret DESC LIMIT ?",
		windowStart(days), company, count)
}

// FundsByType returns funds of one type ordered by window return.
func (s *SQLiteStore) FundsByType(ctx context.Context, fundType string, days, count int) ([]FundPerformance, error) {
	return s.queryPerformance(ctx,
		returnsCTE+" WHERE d.fund_type LIKE '%' || ? || '%' ORDER BY ret DESC LIMIT ?",
		windowStart(days), fundType, count)
}

// FundByCode returns one fund's details.
func (s *SQLiteStore) FundByCode(ctx context.Context, code string) (*Fund, error) {
	var f Fund
	err := s.db.QueryRowContext(ctx, `
		SELECT fund_code, fund_name, company_name, fund_type, beta, sharpe, volatility
		FROM fund_details WHERE fund_code = ?`, code).
		Scan(&f.Code, &f.Name, &f.Company, &f.Type, &f.Beta, &f.Sharpe, &f.Volatility)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fund %s: %w", code, ErrNoData)
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// FundReturn computes one fund's return over the window.
func (s *SQLiteStore) FundReturn(ctx context.Context, code string, days int) (float64, error) {
	var first, last float64
	err := s.db.QueryRowContext(ctx, `
		SELECT fp1.price, fp2.price
		FROM (SELECT MIN(date) AS first_date, MAX(date) AS last_date
		      FROM fund_prices WHERE fund_code = ? AND date >= ?) b
		JOIN fund_prices fp1 ON fp1.fund_code = ? AND fp1.date = b.first_date
		JOIN fund_prices fp2 ON fp2.fund_code = ? AND fp2.date = b.last_date`,
		code, windowStart(days), code, code).
		Scan(&first, &last)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("fund %s prices: %w", code, ErrNoData)
	}
	if err != nil {
		return 0, err
	}
	if first <= 0 {
		return 0, nil
	}
	return (last - first) / first * 100, nil
}

// PriceSeries returns the fund's observations inside the window in
// date order.
func (s *SQLiteStore) PriceSeries(ctx context.Context, code string, days int) ([]PricePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT date, price FROM fund_prices
		WHERE fund_code = ? AND date >= ?
		ORDER BY date ASC`, code, windowStart(days))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []PricePoint
	for rows.Next() {
		var dateStr string
		var p PricePoint
		if err := rows.Scan(&dateStr, &p.Price); err != nil {
			return nil, err
		}
		if p.Date, err = time.Parse("2006-01-02", dateStr); err != nil {
			return nil, fmt.Errorf("bad price date %q: %w", dateStr, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("fund %s prices: %w", code, ErrNoData)
	}
	return out, nil
}

// FundsByMetrics filters fund details by risk thresholds.
func (s *SQLiteStore) FundsByMetrics(ctx context.Context, filter MetricFilter, count int) ([]Fund, error) {
	var conds []string
	var args []any
	if filter.BetaThreshold != nil {
		op := ">"
		if filter.BetaLessThan {
			op = "<"
		}
		conds = append(conds, "beta "+op+" ?")
		args = append(args, *filter.BetaThreshold)
	}
	if filter.SharpeThreshold != nil {
		op := ">"
		if filter.SharpeLessThan {
			op = "<"
		}
		conds = append(conds, "sharpe "+op+" ?")
		args = append(args, *filter.SharpeThreshold)
	}
	if filter.MaxVolatility != nil {
		conds = append(conds, "volatility < ?")
		args = append(args, *filter.MaxVolatility)
	}

	query := "SELECT fund_code, fund_name, company_name, fund_type, beta, sharpe, volatility FROM fund_details"
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY sharpe DESC LIMIT ?"
	args = append(args, count)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fund metrics: %w", err)
	}
	defer rows.Close()

	var out []Fund
	for rows.Next() {
		var f Fund
		if err := rows.Scan(&f.Code, &f.Name, &f.Company, &f.Type, &f.Beta, &f.Sharpe, &f.Volatility); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// MarketSummary aggregates all fund returns over the window.
func (s *SQLiteStore) MarketSummary(ctx context.Context, days int) (*MarketSummary, error) {
	var sum MarketSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN ret > 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN ret < 0 THEN 1 ELSE 0 END), 0),
		       COALESCE(AVG(ret), 0)
		FROM (`+returnsCTE+`)`, windowStart(days)).
		Scan(&sum.FundCount, &sum.Gainers, &sum.Losers, &sum.AvgReturnPct)
	if err != nil {
		return nil, fmt.Errorf("market summary: %w", err)
	}
	if sum.FundCount == 0 {
		return nil, ErrNoData
	}
	return &sum, nil
}
