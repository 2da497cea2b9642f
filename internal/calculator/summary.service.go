package calculator

import (
	"hash/fnv"
	"math"
	"sort"

	"portfoliotracker/internal/domain"
	"portfoliotracker/internal/ledger"

	"github.com/montanaflynn/stats"
)

// colorPalette matches the chart palette on the front end; assignment is a
// stable hash of the symbol so colors survive re-uploads.
var colorPalette = []string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF", "#FF9F40",
}

func ColorForSymbol(symbol string) string {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return colorPalette[h.Sum32()%uint32(len(colorPalette))]
}

// BuildSummary derives aggregate metrics from the snapshot history and the
// cash ledger totals. Every division is guarded: no contributions means a
// 0% return, a zero current value means 0% allocations.
func BuildSummary(history []domain.Snapshot, cashStats ledger.CashStats) domain.SummaryStats {
	summary := domain.SummaryStats{
		TotalContributions: cashStats.TotalContributions,
		ContributionCount:  cashStats.ContributionCount,
		TotalDividends:     cashStats.TotalDividends,
		DividendCount:      cashStats.DividendCount,
		Allocation:         []domain.AllocationSlice{},
	}
	if len(history) == 0 {
		return summary
	}

	last := history[len(history)-1]
	summary.CurrentValue = last.TotalValue

	if cashStats.TotalContributions.IsPositive() {
		summary.TotalReturn = last.TotalValue.
			Sub(cashStats.TotalContributions).
			Div(cashStats.TotalContributions).
			InexactFloat64() * 100
	}

	for symbol, quantity := range last.Positions {
		if !quantity.IsPositive() {
			continue
		}
		value := last.PositionValues[symbol]
		percentage := 0.0
		if last.TotalValue.IsPositive() {
			percentage = value.Div(last.TotalValue).InexactFloat64() * 100
		}
		summary.Allocation = append(summary.Allocation, domain.AllocationSlice{
			Symbol:     symbol,
			Percentage: percentage,
			Value:      value,
			Color:      ColorForSymbol(symbol),
		})
	}
	sort.Slice(summary.Allocation, func(i, j int) bool {
		if !summary.Allocation[i].Value.Equal(summary.Allocation[j].Value) {
			return summary.Allocation[i].Value.GreaterThan(summary.Allocation[j].Value)
		}
		return summary.Allocation[i].Symbol < summary.Allocation[j].Symbol
	})

	summary.AnnualizedVolatility, summary.BestDay, summary.WorstDay = returnSeriesMetrics(history)

	return summary
}

// returnSeriesMetrics computes the sample stdev of daily percent returns,
// annualized over 252 trading days, plus the best and worst single days.
// Histories too short for a meaningful distribution report zeros.
func returnSeriesMetrics(history []domain.Snapshot) (volatility, bestDay, worstDay float64) {
	if len(history) < 3 {
		return 0, 0, 0
	}

	returns := []float64{}
	for i := 1; i < len(history); i++ {
		previous := history[i-1].TotalValue
		if !previous.IsPositive() {
			continue
		}
		change := history[i].TotalValue.Sub(previous).Div(previous).InexactFloat64() * 100
		returns = append(returns, change)
	}
	if len(returns) < 2 {
		return 0, 0, 0
	}

	stdev, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return 0, 0, 0
	}
	best, _ := stats.Max(returns)
	worst, _ := stats.Min(returns)

	return stdev * math.Sqrt(252), best, worst
}
