package ledger

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// fxPairPattern matches the conversion-pair convention brokers put in FX
// transfer descriptions, e.g. "USD/CAD @ 1.3520" or "USD/CAD 1.3520". This
// is an explicit pattern match on the description text - rows that don't
// match leave the rate table untouched.
var fxPairPattern = regexp.MustCompile(`([A-Z]{3})/([A-Z]{3})(?:\s*(?:@|AT)?\s*([0-9]+(?:\.[0-9]+)?))`)

// RateTable maps currencies to their rate into the base currency. Unknown
// currencies convert at 1, so an export that never mentions FX behaves as if
// everything were already in base currency.
type RateTable struct {
	base  string
	rates map[string]decimal.Decimal
}

func NewRateTable(base string) *RateTable {
	return &RateTable{
		base:  strings.ToUpper(base),
		rates: map[string]decimal.Decimal{},
	}
}

func (t *RateTable) Base() string {
	return t.base
}

func (t *RateTable) Set(currency string, rate decimal.Decimal) {
	if rate.IsPositive() {
		t.rates[strings.ToUpper(currency)] = rate
	}
}

// Rate returns the multiplier into base currency.
func (t *RateTable) Rate(currency string) decimal.Decimal {
	currency = strings.ToUpper(currency)
	if currency == "" || currency == t.base {
		return decimal.NewFromInt(1)
	}
	if rate, ok := t.rates[currency]; ok {
		return rate
	}
	return decimal.NewFromInt(1)
}

func (t *RateTable) Convert(amount decimal.Decimal, currency string) decimal.Decimal {
	return amount.Mul(t.Rate(currency))
}

// UpdateFromDescription scans an FX transfer description for a "XXX/YYY rate"
// pair and records the rate when one side is the base currency. Reports
// whether the table changed.
func (t *RateTable) UpdateFromDescription(desc string) bool {
	match := fxPairPattern.FindStringSubmatch(strings.ToUpper(desc))
	if match == nil {
		return false
	}
	from, to := match[1], match[2]
	rate, err := decimal.NewFromString(match[3])
	if err != nil || !rate.IsPositive() {
		return false
	}

	// "USD/CAD 1.35" means 1 USD = 1.35 CAD
	if to == t.base {
		t.Set(from, rate)
		return true
	}
	if from == t.base {
		t.Set(to, decimal.NewFromInt(1).Div(rate))
		return true
	}
	return false
}
