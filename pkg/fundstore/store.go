// Package fundstore provides the relational query surface the
// analyzer handlers run against: a fund-details table keyed by fund
// code and a price time series keyed by (fund_code, date).
package fundstore

import (
	"context"
	"errors"
	"time"
)

// ErrNoData is returned when a query matches no rows.
var ErrNoData = errors.New("fundstore: no data")

// Fund is one row of the fund-details table.
type Fund struct {
	Code       string
	Name       string
	Company    string
	Type       string
	Beta       float64
	Sharpe     float64
	Volatility float64
}

// FundPerformance couples a fund with its return over a query window.
type FundPerformance struct {
	Fund
	ReturnPct float64
}

// PricePoint is one observation of a fund's price series.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// MarketSummary aggregates the whole market over a window.
type MarketSummary struct {
	FundCount    int
	Gainers      int
	Losers       int
	AvgReturnPct float64
}

// MetricFilter selects funds by risk metrics. Nil thresholds are not
// applied; LessThan flags flip the comparison direction.
type MetricFilter struct {
	BetaThreshold   *float64
	BetaLessThan    bool
	SharpeThreshold *float64
	SharpeLessThan  bool
	MaxVolatility   *float64
}

// Store is the query interface handlers depend on.
type Store interface {
	SafestFunds(ctx context.Context, days, count int) ([]FundPerformance, error)
	TopGainers(ctx context.Context, days, count int) ([]FundPerformance, error)
	WorstFunds(ctx context.Context, days, count int) ([]FundPerformance, error)
	FundByCode(ctx context.Context, code string) (*Fund, error)
	FundReturn(ctx context.Context, code string, days int) (float64, error)
	PriceSeries(ctx context.Context, code string, days int) ([]PricePoint, error)
	FundsByCompany(ctx context.Context, company string, days, count int) ([]FundPerformance, error)
	FundsByType(ctx context.Context, fundType string, days, count int) ([]FundPerformance, error)
	FundsByMetrics(ctx context.Context, filter MetricFilter, count int) ([]Fund, error)
	MarketSummary(ctx context.Context, days int) (*MarketSummary, error)
	Close() error
}
