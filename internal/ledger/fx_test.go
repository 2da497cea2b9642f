package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func Test_RateTable(t *testing.T) {
	t.Run("base and unknown currencies convert at 1", func(t *testing.T) {
		rates := NewRateTable("CAD")
		amount := decimal.NewFromInt(100)

		require.Equal(t, "100", rates.Convert(amount, "CAD").String())
		require.Equal(t, "100", rates.Convert(amount, "JPY").String())
		require.Equal(t, "100", rates.Convert(amount, "").String())
	})

	t.Run("set rate applies on convert", func(t *testing.T) {
		rates := NewRateTable("CAD")
		rates.Set("usd", decimal.NewFromFloat(1.25))

		require.Equal(t, "125", rates.Convert(decimal.NewFromInt(100), "USD").String())
	})

	t.Run("non-positive rates are rejected", func(t *testing.T) {
		rates := NewRateTable("CAD")
		rates.Set("USD", decimal.Zero)

		require.Equal(t, "1", rates.Rate("USD").String())
	})
}

func Test_UpdateFromDescription(t *testing.T) {
	tests := []struct {
		name        string
		description string
		wantUpdated bool
		wantUSDRate string
	}{
		{
			name:        "pair into base with at sign",
			description: "FX CONVERSION USD/CAD @ 1.3520",
			wantUpdated: true,
			wantUSDRate: "1.352",
		},
		{
			name:        "pair into base without separator",
			description: "USD/CAD 1.30",
			wantUpdated: true,
			wantUSDRate: "1.3",
		},
		{
			name:        "pair out of base inverts the rate",
			description: "CAD/USD @ 0.80",
			wantUpdated: true,
			wantUSDRate: "1.25",
		},
		{
			name:        "no rate in description",
			description: "TRANSFER IN KIND",
			wantUpdated: false,
			wantUSDRate: "1",
		},
		{
			name:        "pair not involving base is ignored",
			description: "USD/JPY @ 150.2",
			wantUpdated: false,
			wantUSDRate: "1",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rates := NewRateTable("CAD")
			updated := rates.UpdateFromDescription(tc.description)

			require.Equal(t, tc.wantUpdated, updated)
			require.Equal(t, tc.wantUSDRate, rates.Rate("USD").String())
		})
	}
}
