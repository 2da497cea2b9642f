package calculator

import (
	"testing"

	"portfoliotracker/internal/domain"
	"portfoliotracker/internal/ledger"
	"portfoliotracker/internal/util"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func snapshotOn(day int, cash float64, values map[string]float64) domain.Snapshot {
	positions := map[string]decimal.Decimal{}
	positionValues := map[string]decimal.Decimal{}
	total := decimal.NewFromFloat(cash)
	for symbol, value := range values {
		positions[symbol] = decimal.NewFromInt(1)
		positionValues[symbol] = decimal.NewFromFloat(value)
		total = total.Add(decimal.NewFromFloat(value))
	}
	return domain.Snapshot{
		Date:           util.NewDate(2024, 1, day),
		Cash:           decimal.NewFromFloat(cash),
		Positions:      positions,
		PositionValues: positionValues,
		TotalValue:     total,
	}
}

func Test_BuildSummary(t *testing.T) {
	t.Run("return and allocation from final snapshot", func(t *testing.T) {
		history := []domain.Snapshot{
			snapshotOn(1, 1000, nil),
			snapshotOn(2, 100, map[string]float64{"XYZ": 600, "ABC": 400}),
		}
		cashStats := ledger.CashStats{
			TotalContributions: decimal.NewFromInt(1000),
			ContributionCount:  1,
		}

		summary := BuildSummary(history, cashStats)

		require.Equal(t, "1100", summary.CurrentValue.String())
		require.InDelta(t, 10.0, summary.TotalReturn, 1e-9)

		require.Len(t, summary.Allocation, 2)
		// sorted by value, largest first
		require.Equal(t, "XYZ", summary.Allocation[0].Symbol)
		require.InDelta(t, 600.0/1100*100, summary.Allocation[0].Percentage, 1e-9)
		require.Equal(t, "ABC", summary.Allocation[1].Symbol)

		pctSum := summary.Allocation[0].Percentage + summary.Allocation[1].Percentage
		require.LessOrEqual(t, pctSum, 100.0)
	})

	t.Run("no contributions guards the return", func(t *testing.T) {
		history := []domain.Snapshot{snapshotOn(1, 50, nil)}

		summary := BuildSummary(history, ledger.CashStats{})
		require.Zero(t, summary.TotalReturn)
	})

	t.Run("zero current value guards percentages", func(t *testing.T) {
		history := []domain.Snapshot{
			snapshotOn(1, -100, map[string]float64{"XYZ": 100}),
		}

		summary := BuildSummary(history, ledger.CashStats{})
		require.Len(t, summary.Allocation, 1)
		require.Zero(t, summary.Allocation[0].Percentage)
	})

	t.Run("empty history yields zeroes", func(t *testing.T) {
		summary := BuildSummary(nil, ledger.CashStats{})
		require.True(t, summary.CurrentValue.IsZero())
		require.Empty(t, summary.Allocation)
	})

	t.Run("short history reports zero volatility", func(t *testing.T) {
		history := []domain.Snapshot{
			snapshotOn(1, 1000, nil),
			snapshotOn(2, 1010, nil),
		}

		summary := BuildSummary(history, ledger.CashStats{})
		require.Zero(t, summary.AnnualizedVolatility)
	})

	t.Run("volatility and best and worst day from value series", func(t *testing.T) {
		history := []domain.Snapshot{
			snapshotOn(1, 1000, nil),
			snapshotOn(2, 1100, nil), // +10%
			snapshotOn(3, 1045, nil), // -5%
			snapshotOn(4, 1045, nil), // flat
		}

		summary := BuildSummary(history, ledger.CashStats{})
		require.Greater(t, summary.AnnualizedVolatility, 0.0)
		require.InDelta(t, 10.0, summary.BestDay, 1e-9)
		require.InDelta(t, -5.0, summary.WorstDay, 1e-9)
	})
}

func Test_ColorForSymbol(t *testing.T) {
	t.Run("stable across calls", func(t *testing.T) {
		require.Equal(t, ColorForSymbol("XYZ"), ColorForSymbol("XYZ"))
	})

	t.Run("always from the palette", func(t *testing.T) {
		for _, symbol := range []string{"XYZ", "ABC", "AAPL", "GOOG", "VEQT.TO"} {
			require.Contains(t, colorPalette, ColorForSymbol(symbol))
		}
	})
}
