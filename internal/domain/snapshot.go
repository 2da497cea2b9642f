package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Snapshot is the portfolio state as of one date. The maps are built fresh
// for each snapshot - they never alias the live reconstruction state, so a
// snapshot is safe to hold onto while the fold keeps mutating the portfolio.
type Snapshot struct {
	Date           time.Time
	Cash           decimal.Decimal
	Positions      map[string]decimal.Decimal
	PositionValues map[string]decimal.Decimal
	TotalValue     decimal.Decimal
}

type AllocationSlice struct {
	Symbol     string
	Percentage float64
	Value      decimal.Decimal
	Color      string
}

type SummaryStats struct {
	CurrentValue       decimal.Decimal
	TotalReturn        float64
	TotalContributions decimal.Decimal
	ContributionCount  int
	TotalDividends     decimal.Decimal
	DividendCount      int

	// derived from the daily value series; zero when the history is too
	// short to compute a meaningful return distribution
	AnnualizedVolatility float64
	BestDay              float64
	WorstDay             float64

	Allocation []AllocationSlice
}
