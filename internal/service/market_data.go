package service

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"github.com/shopspring/decimal"
)

// MarketDataProvider looks up a historical close for a symbol. It is a
// best-effort collaborator - callers must treat any error as "price
// unavailable" and fall through, never as a reason to abort.
type MarketDataProvider interface {
	HistoricalClose(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, error)
}

type yahooProvider struct{}

// NewYahooProvider returns a provider backed by Yahoo Finance daily charts.
func NewYahooProvider() MarketDataProvider {
	return yahooProvider{}
}

// HistoricalClose returns the adjusted close for the most recent trading day
// on or before date, scanning back up to a week to cover weekends and
// holidays.
func (yahooProvider) HistoricalClose(ctx context.Context, symbol string, date time.Time) (decimal.Decimal, error) {
	start := date.AddDate(0, 0, -7)
	params := &chart.Params{
		Start:    datetime.New(&start),
		End:      datetime.New(&date),
		Symbol:   symbol,
		Interval: datetime.OneDay,
	}
	iter := chart.Get(params)

	var (
		lastClose decimal.Decimal
		found     bool
	)
	for iter.Next() {
		lastClose = iter.Bar().AdjClose
		found = true
	}
	if err := iter.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("failed to get chart for %s: %w", symbol, err)
	}
	if !found {
		return decimal.Zero, fmt.Errorf("no bars for %s on or before %s", symbol, date.Format(time.DateOnly))
	}

	return lastClose, nil
}
